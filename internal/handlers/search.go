package handlers

import (
	"net/http"
	"strings"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/services"
	"github.com/Kartik1014/Rentit/internal/utils"
	"github.com/gin-gonic/gin"
)

// SearchProperties accepts "location" as an alias of "city".
func (h *Handler) SearchProperties(ctx *gin.Context) {
	page, ok := h.page(ctx)

	if !ok {
		return
	}

	in := services.SearchInput{
		City:         ctx.Query("city"),
		PropertyType: models.PropertyType(strings.ToUpper(strings.TrimSpace(ctx.Query("property_type")))),
	}

	if in.City == "" {
		in.City = ctx.Query("location")
	}

	var err error

	if in.MinPrice, err = utils.QueryFloat(ctx, "min_price"); err != nil {
		h.fail(ctx, err)
		return
	}

	if in.MaxPrice, err = utils.QueryFloat(ctx, "max_price"); err != nil {
		h.fail(ctx, err)
		return
	}

	if in.Bedrooms, err = utils.QueryInt(ctx, "bedrooms"); err != nil {
		h.fail(ctx, err)
		return
	}

	properties, err := h.services.Properties.Search(ctx.Request.Context(), in, page)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, properties)
}

const defaultRadiusKm = 10

func (h *Handler) SearchNearby(ctx *gin.Context) {
	page, ok := h.page(ctx)

	if !ok {
		return
	}

	lat, err := utils.QueryFloat(ctx, "lat")
	if err != nil {
		h.fail(ctx, err)
		return
	}

	lng, err := utils.QueryFloat(ctx, "lng")
	if err != nil {
		h.fail(ctx, err)
		return
	}

	if lat == nil || lng == nil {
		h.fail(ctx, apperr.Validation("lat and lng are required"))
		return
	}

	radius, err := utils.QueryFloat(ctx, "radius")
	if err != nil {
		h.fail(ctx, err)
		return
	}

	in := services.NearbyInput{Latitude: *lat, Longitude: *lng, RadiusKm: defaultRadiusKm}
	if radius != nil {
		in.RadiusKm = *radius
	}

	properties, err := h.services.Properties.SearchNearby(ctx.Request.Context(), in, page)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, properties)
}
