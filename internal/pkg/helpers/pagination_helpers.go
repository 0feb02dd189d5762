package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/hireboard/internal/app/models/dto"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultPage     = 1
)

// Page is a validated 1-based page request
type Page struct {
	Number int
	Size   int
}

// Offset returns the SQL offset of the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// NewPage clamps number and size into valid bounds, using defaultSize when size is unset.
func NewPage(number, size, defaultSize int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if size <= 0 {
		size = defaultSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// ParsePaginationParams reads page and size (or its alias limit) from the query string.
func ParsePaginationParams(c *gin.Context, defaultSize int) Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	sizeStr := c.Query("size")
	if sizeStr == "" {
		sizeStr = c.Query("limit")
	}
	size, _ := strconv.Atoi(sizeStr)

	return NewPage(page, size, defaultSize)
}

// NewPaginationInfo creates a standard PaginationInfo DTO.
func NewPaginationInfo(totalItems int, page Page) dto.PaginationInfo {
	totalPages := 0
	if totalItems > 0 {
		totalPages = (totalItems + page.Size - 1) / page.Size
	}

	return dto.PaginationInfo{
		CurrentPage: page.Number,
		TotalPages:  totalPages,
		PageSize:    page.Size,
		TotalItems:  totalItems,
	}
}

// NewPaginatedResponse bundles items with their pagination info.
func NewPaginatedResponse(items interface{}, totalItems int, page Page) dto.PaginatedResponse {
	return dto.PaginatedResponse{
		Items:      items,
		Pagination: NewPaginationInfo(totalItems, page),
	}
}

// ParseIDParam parses a positive int64 path parameter.
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
