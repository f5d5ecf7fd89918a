package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/media"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/service"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/util"
)

func writeCatalogError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrTourismNotFound),
		errors.Is(err, service.ErrUmkmNotFound),
		errors.Is(err, service.ErrArticleNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	case errors.Is(err, service.ErrSlugTaken),
		errors.Is(err, service.ErrInvalidStatusTransition):
		return c.JSON(http.StatusConflict, util.Error(err.Error()))
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrUnknownCategory),
		errors.Is(err, service.ErrInvalidCategoryType),
		errors.Is(err, service.ErrTooManyImages),
		errors.Is(err, domain.ErrInvalidListQuery),
		errors.Is(err, domain.ErrInvalidVisitorRange):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrVisitorStatsUnavailable):
		return c.JSON(http.StatusServiceUnavailable, util.Error(err.Error()))
	case errors.Is(err, service.ErrInvalidSession):
		return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
	case errors.Is(err, media.ErrImageTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, util.Error(err.Error()))
	case errors.Is(err, media.ErrUnsupportedType):
		return c.JSON(http.StatusUnsupportedMediaType, util.Error(err.Error()))
	case errors.Is(err, media.ErrEmptyImage),
		errors.Is(err, media.ErrInvalidImage),
		errors.Is(err, media.ErrDimensionTooLarge):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	default:
		c.Logger().Errorf("catalog: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal error"))
	}
}

// reservedListParams are query parameters with a meaning of their own; every
// other parameter is an equality predicate on the column of the same name.
var reservedListParams = map[string]bool{"query": true, "order": true}

func parseListQuery(c echo.Context) (domain.ListQuery, error) {
	column, descending, err := domain.ParseOrder(c.QueryParam("order"))
	if err != nil {
		return domain.ListQuery{}, err
	}
	q := domain.ListQuery{
		Search:     strings.TrimSpace(c.QueryParam("query")),
		OrderBy:    column,
		Descending: descending,
	}
	for key, values := range c.QueryParams() {
		if reservedListParams[key] || len(values) == 0 {
			continue
		}
		value := strings.TrimSpace(values[len(values)-1])
		if value == "" || value == "all" {
			continue
		}
		q = q.WithEqual(key, value)
	}
	return q, nil
}
