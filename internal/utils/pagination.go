package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginationParams struct {
	Page  int
	Limit int
}

// Offset converts the 1-based page into a record offset.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// GetPaginationParams reads page and limit from the query string, clamping
// both to sane values.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return PaginationParams{Page: page, Limit: limit}
}
