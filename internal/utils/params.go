package utils

import (
	"strconv"
	"strings"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/gin-gonic/gin"
)

// GetIDParam parses a positive numeric path parameter.
func GetIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, apperr.Validation(name + " is required")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, apperr.Validation("Invalid " + name)
	}

	return uint(id), nil
}

// GetPageRequest reads page, limit, sort_by and order. Missing values fall
// back to the first page of DefaultPageSize items, newest first.
func GetPageRequest(ctx *gin.Context) (types.PageRequest, error) {
	page, err := queryInt(ctx, "page", 0)
	if err != nil {
		return types.PageRequest{}, err
	}

	size, err := queryInt(ctx, "limit", types.DefaultPageSize)
	if err != nil {
		return types.PageRequest{}, err
	}

	req := types.NewPageRequest(page, size)

	if sortBy := strings.TrimSpace(ctx.Query("sort_by")); sortBy != "" {
		req.SortBy = sortBy
	}

	switch strings.ToLower(ctx.DefaultQuery("order", "desc")) {
	case "asc":
		req.Desc = false
	case "desc":
		req.Desc = true
	default:
		return types.PageRequest{}, apperr.Validation("order must be one of [asc desc]")
	}

	return req, nil
}

func queryInt(ctx *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(ctx.Query(name))
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(name + " must be a number")
	}
	return n, nil
}

// QueryFloat returns nil when the parameter is absent.
func QueryFloat(ctx *gin.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(ctx.Query(name))
	if raw == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validation(name + " must be a number")
	}
	return &f, nil
}

// QueryInt returns nil when the parameter is absent.
func QueryInt(ctx *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(ctx.Query(name))
	if raw == "" {
		return nil, nil
	}

	n, err := queryInt(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
