package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/pkg/patch"
)

// CreateAdRequest is the multipart form of POST /ads; pictures arrive as
// repeated "pictures" file parts.
type CreateAdRequest struct {
	Title   string  `form:"title" json:"title"`
	City    string  `form:"city" json:"city"`
	Country string  `form:"country" json:"country"`
	Price   float64 `form:"price" json:"price"`
	Size    float64 `form:"size" json:"size"`
	Type    *int    `form:"type" json:"type"`
}

// UpdateAdRequest is the JSON patch of PATCH /ads/:id.
type UpdateAdRequest struct {
	Title   patch.Field[string]  `json:"title" swaggertype:"string"`
	City    patch.Field[string]  `json:"city" swaggertype:"string"`
	Country patch.Field[string]  `json:"country" swaggertype:"string"`
	Price   patch.Field[float64] `json:"price" swaggertype:"number"`
	Size    patch.Field[float64] `json:"size" swaggertype:"number"`
	Type    patch.Field[int]     `json:"type" swaggertype:"integer"`
}

// AdSearchRequest binds the query string of /adsBySearch. Numbers stay
// strings so that malformed values are ignored instead of rejected.
type AdSearchRequest struct {
	City     string `form:"city"`
	Country  string `form:"country"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
	MinSize  string `form:"minSize"`
	MaxSize  string `form:"maxSize"`
	Type     string `form:"type"`
	Page     string `form:"page"`
}

// OwnerResponse is the owner summary embedded in ad, question and answer views.
type OwnerResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	ImagePath *string   `json:"imagePath,omitempty"`
}

// AdResponse is the denormalized ad view
type AdResponse struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title" example:"Two-room flat"`
	City         string        `json:"city" example:"Izmir"`
	Country      string        `json:"country" example:"Turkey"`
	Price        float64       `json:"price" example:"1200"`
	Size         float64       `json:"size" example:"75"`
	Type         models.AdType `json:"type" example:"1"`
	PicturePaths []string      `json:"picturePaths"`
	PictureURLs  []string      `json:"pictureUrls"`
	UserID       uuid.UUID     `json:"userId"`
	Owner        OwnerResponse `json:"owner"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// AdSearchResponse is one page of search results.
type AdSearchResponse struct {
	Ads         []AdResponse `json:"ads"`
	TotalAds    int64        `json:"totalAds" example:"27"`
	TotalPages  int          `json:"totalPages" example:"3"`
	CurrentPage int          `json:"currentPage" example:"1"`
	PageSize    int          `json:"pageSize" example:"10"`
}

// SearchParamsResponse drives the client-side range sliders. Bounds are
// null and hasData is false when there are no ads.
type SearchParamsResponse struct {
	MinPrice *float64 `json:"minPrice"`
	MaxPrice *float64 `json:"maxPrice"`
	MinSize  *float64 `json:"minSize"`
	MaxSize  *float64 `json:"maxSize"`
	HasData  bool     `json:"hasData"`
}

// NewOwnerResponse converts an owner summary.
func NewOwnerResponse(o models.OwnerSummary) OwnerResponse {
	return OwnerResponse{
		ID:        o.ID,
		FirstName: o.FirstName,
		LastName:  o.LastName,
		ImagePath: o.ImagePath,
	}
}

// URLFunc maps a stored picture path to the URL clients fetch it from.
type URLFunc func(storedPath string) string

// NewAdResponse converts a joined ad row into its response view. Picture
// paths are relative to the ads folder; pictureURL resolves each of them.
func NewAdResponse(ad *models.AdDetails, pictureURL URLFunc) AdResponse {
	paths := ad.PicturePaths
	if paths == nil {
		paths = []string{}
	}
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, pictureURL(p))
	}
	return AdResponse{
		ID:           ad.ID,
		Title:        ad.Title,
		City:         ad.City,
		Country:      ad.Country,
		Price:        ad.Price,
		Size:         ad.Size,
		Type:         ad.Type,
		PicturePaths: paths,
		PictureURLs:  urls,
		UserID:       ad.UserID,
		Owner:        NewOwnerResponse(ad.Owner),
		CreatedAt:    ad.CreatedAt,
		UpdatedAt:    ad.UpdatedAt,
	}
}

// NewAdListResponse converts a list of joined ad rows.
func NewAdListResponse(ads []*models.AdDetails, pictureURL URLFunc) []AdResponse {
	out := make([]AdResponse, 0, len(ads))
	for _, ad := range ads {
		out = append(out, NewAdResponse(ad, pictureURL))
	}
	return out
}

// NewSearchParamsResponse converts computed bounds.
func NewSearchParamsResponse(b *models.AdBounds) SearchParamsResponse {
	return SearchParamsResponse{
		MinPrice: b.MinPrice,
		MaxPrice: b.MaxPrice,
		MinSize:  b.MinSize,
		MaxSize:  b.MaxSize,
		HasData:  b.HasData(),
	}
}
