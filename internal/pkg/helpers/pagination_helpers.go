package helpers

import (
	"strconv"
	"strings"

	"github.com/yigit/bazaar/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
)

// NormalizePageSize keeps the page size inside (0, MaxPageSize].
func NormalizePageSize(size int) int {
	if size <= 0 || size > MaxPageSize {
		return DefaultPageSize
	}
	return size
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	size = NormalizePageSize(size)
	if page < 1 {
		page = DefaultPage
	}
	return uint64(page-1) * uint64(size), uint64(size)
}

// TotalPages returns ceil(totalItems/size); zero matches yield zero pages.
func TotalPages(totalItems int64, size int) int {
	size = NormalizePageSize(size)
	if totalItems <= 0 {
		return 0
	}
	return int((totalItems + int64(size) - 1) / int64(size))
}

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page should be the 1-based page number.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	size = NormalizePageSize(size)
	if page < 1 {
		page = DefaultPage
	}
	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  TotalPages(totalItems, size),
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePage reads a 1-based page number; anything unusable becomes page 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return DefaultPage
	}
	return page
}
