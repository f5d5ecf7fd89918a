package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/service"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/util"
)

type PublicServices struct {
	Tourism    *service.TourismService
	Umkm       *service.UmkmService
	Articles   *service.ArticleService
	Categories *service.CategoryService
}

type publicHandler struct {
	svc PublicServices
}

// RegisterPublic mounts the read-only visitor routes. Only active
// destinations, verified products and published articles are served.
func RegisterPublic(e *echo.Echo, svc PublicServices) {
	h := &publicHandler{svc: svc}
	g := e.Group("/api/v1")
	g.GET("/tourism", h.listTourism)
	g.GET("/tourism/:slug", h.getTourism)
	g.GET("/umkm", h.listUmkm)
	g.GET("/umkm/:slug", h.getUmkm)
	g.GET("/articles", h.listArticles)
	g.GET("/articles/:slug", h.getArticle)
	g.GET("/categories", h.listCategories)
}

func (h *publicHandler) listTourism(c echo.Context) error {
	rows, err := h.svc.Tourism.ListPublic(c.Request().Context(), c.QueryParam("category"), c.QueryParam("query"))
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, util.Rows(rows))
}

func (h *publicHandler) getTourism(c echo.Context) error {
	row, err := h.svc.Tourism.GetPublicBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, util.Rows(row))
}

func (h *publicHandler) listUmkm(c echo.Context) error {
	rows, err := h.svc.Umkm.ListPublic(c.Request().Context(), c.QueryParam("category"), c.QueryParam("query"))
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, util.Rows(rows))
}

func (h *publicHandler) getUmkm(c echo.Context) error {
	row, err := h.svc.Umkm.GetPublicBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, util.Rows(row))
}

func (h *publicHandler) listArticles(c echo.Context) error {
	rows, err := h.svc.Articles.ListPublished(c.Request().Context(), c.QueryParam("category"), c.QueryParam("query"))
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, util.Rows(rows))
}

func (h *publicHandler) getArticle(c echo.Context) error {
	row, err := h.svc.Articles.GetPublishedBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, util.Rows(row))
}

func (h *publicHandler) listCategories(c echo.Context) error {
	rows, err := h.svc.Categories.List(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("categories", rows))
}
