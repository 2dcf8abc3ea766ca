package utils

import (
	"math"
	"strconv"

	"github.com/emsteam/ems-api/internal/constants"
	"github.com/gin-gonic/gin"
)

// PaginationParams is a validated page window.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse is the "pagination" block of list responses.
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Response pairs the window with the unpaginated total.
func (p PaginationParams) Response(total int64) PaginationResponse {
	return PaginationResponse{Page: p.Page, Limit: p.Limit, Total: total}
}

// GetPaginationParams extracts and validates pagination parameters from the
// request. It returns nil when neither page nor limit was supplied, meaning
// the caller wants the full result set.
func GetPaginationParams(c *gin.Context) *PaginationParams {
	pageStr, hasPage := c.GetQuery("page")
	limitStr, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return nil
	}

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	// Keep (page-1)*limit within int.
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	return &PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
