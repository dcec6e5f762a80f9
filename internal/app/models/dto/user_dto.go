package dto

import (
	"github.com/google/uuid"
	"github.com/yigit/bazaar/internal/app/models"
)

// RegisterRequest is the multipart form sent to /user/register; the image
// travels as the "image" file part.
type RegisterRequest struct {
	FirstName string `form:"firstName" json:"firstName"`
	LastName  string `form:"lastName" json:"lastName"`
	Email     string `form:"email" json:"email" binding:"required,email"`
	Password  string `form:"password" json:"password" binding:"required"`
	Role      *int   `form:"role" json:"role"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// UpdateUserRequest carries the optional profile fields of PATCH /user/:id.
// Nil means the field was not sent.
type UpdateUserRequest struct {
	FirstName *string `form:"firstName" json:"firstName"`
	LastName  *string `form:"lastName" json:"lastName"`
	Email     *string `form:"email" json:"email"`
	Password  *string `form:"password" json:"password"`
}

// EmailLookupRequest is the optional JSON body of getUserByEmail and DELETE /user.
type EmailLookupRequest struct {
	Email string `json:"email" form:"email"`
}

// UserResponse is the reduced user view; the password hash never appears here.
type UserResponse struct {
	ID        uuid.UUID   `json:"id" example:"5f0c6f4e-8c7e-4b8a-9a55-2d5b3f1f8e21"`
	FirstName string      `json:"firstName" example:"Ada"`
	LastName  string      `json:"lastName" example:"Lovelace"`
	Email     string      `json:"email" example:"ada@example.com"`
	Role      models.Role `json:"role" example:"1"`
	ImagePath *string     `json:"imagePath,omitempty" example:"userImages/5f0c6f4e-8c7e-4b8a-9a55-2d5b3f1f8e21.png"`
	ImageURL  *string     `json:"imageUrl,omitempty" example:"http://localhost:3000/userImages/5f0c6f4e-8c7e-4b8a-9a55-2d5b3f1f8e21.png"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType" example:"Bearer"`
	ExpiresIn int64        `json:"expiresIn" example:"3600"`
}

// NewUserResponse projects a stored user onto the reduced view.
func NewUserResponse(u *models.User, imageURL URLFunc) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		ImagePath: u.ImagePath,
	}
	if u.ImagePath != nil {
		url := imageURL(*u.ImagePath)
		resp.ImageURL = &url
	}
	return resp
}

// NewUserListResponse projects a list of users.
func NewUserListResponse(users []*models.User, imageURL URLFunc) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u, imageURL))
	}
	return out
}
