package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/media"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/service"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/util"
)

// catalog is the admin surface shared by the tourism, UMKM and article
// services. T is the row type, F its partial-write fields.
type catalog[T any, F any] interface {
	List(ctx context.Context, q domain.ListQuery) ([]T, error)
	Count(ctx context.Context, q domain.ListQuery) (int, error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	Update(ctx context.Context, id uuid.UUID, fields F) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type collectionHandler[T any, F any] struct {
	catalog catalog[T, F]
	create  func(c echo.Context, fields F) (*T, error)
	upload  func(ctx context.Context, id uuid.UUID, upload media.Upload) (*T, error)
	export  func(ctx context.Context, q domain.ListQuery) ([]byte, error)
	name    string
}

func (h *collectionHandler[T, F]) register(g *echo.Group) {
	g.GET("", h.list)
	g.GET("/count", h.count)
	if h.export != nil {
		g.GET("/export", h.exportXLSX)
	}
	g.GET("/:id", h.get)
	g.POST("", h.createRow)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.remove)
	if h.upload != nil {
		g.POST("/:id/images", h.uploadImage)
	}
}

func (h *collectionHandler[T, F]) list(c echo.Context) error {
	q, err := parseListQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	rows, err := h.catalog.List(c.Request().Context(), q)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, util.Rows(rows))
}

func (h *collectionHandler[T, F]) count(c echo.Context) error {
	q, err := parseListQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	n, err := h.catalog.Count(c.Request().Context(), q)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, CountResponse{Count: n})
}

func (h *collectionHandler[T, F]) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid "+h.name+" id"))
	}
	row, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, util.Rows(row))
}

func (h *collectionHandler[T, F]) createRow(c echo.Context) error {
	var fields F
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	row, err := h.create(c, fields)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Rows(row))
}

func (h *collectionHandler[T, F]) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid "+h.name+" id"))
	}
	var fields F
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	row, err := h.catalog.Update(c.Request().Context(), id, fields)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, util.Rows(row))
}

func (h *collectionHandler[T, F]) remove(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid "+h.name+" id"))
	}
	if err := h.catalog.Delete(c.Request().Context(), id); err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, util.Success())
}

func (h *collectionHandler[T, F]) uploadImage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid "+h.name+" id"))
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("file upload required"))
	}
	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read upload"))
	}
	defer src.Close()

	row, err := h.upload(c.Request().Context(), id, media.Upload{
		Reader:      src,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
	})
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(http.StatusOK, util.Rows(row))
}

func (h *collectionHandler[T, F]) exportXLSX(c echo.Context) error {
	q, err := parseListQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	data, err := h.export(c.Request().Context(), q)
	if err != nil {
		return writeCatalogError(c, err)
	}
	filename := fmt.Sprintf("%s-%s.xlsx", h.name, time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, service.XLSXContentType, data)
}

type AdminServices struct {
	Auth      *service.AuthService
	Tourism   *service.TourismService
	Umkm      *service.UmkmService
	Articles  *service.ArticleService
	Dashboard *service.DashboardService
	Media     *service.MediaService
	Export    *service.ExportService
	// Visitors may be nil when no Elasticsearch is configured; the route
	// then answers 503.
	Visitors *service.VisitorStatsService
}

// RegisterAdmin mounts the back-office collections under /api/v1/admin.
// Every route requires an admin session.
func RegisterAdmin(e *echo.Echo, svc AdminServices) {
	admin := e.Group("/api/v1/admin", RequireAuth(svc.Auth), RequireAdmin(svc.Auth))

	admin.GET("/dashboard", func(c echo.Context) error {
		stats, err := svc.Dashboard.Stats(c.Request().Context())
		if err != nil {
			return writeCatalogError(c, err)
		}
		return c.JSON(http.StatusOK, util.Data("stats", stats))
	})
	admin.GET("/dashboard/visitors", func(c echo.Context) error {
		rangeKey, err := domain.ParseVisitorRange(c.QueryParam("range"))
		if err != nil {
			return writeCatalogError(c, err)
		}
		stats, err := svc.Visitors.Stats(c.Request().Context(), rangeKey)
		if err != nil {
			return writeCatalogError(c, err)
		}
		return c.JSON(http.StatusOK, util.Data("visitors", stats))
	})

	tourism := &collectionHandler[domain.TourismDestination, domain.TourismFields]{
		catalog: svc.Tourism,
		name:    "tourism",
		create: func(c echo.Context, fields domain.TourismFields) (*domain.TourismDestination, error) {
			return svc.Tourism.Create(c.Request().Context(), fields)
		},
	}
	umkm := &collectionHandler[domain.UmkmProduct, domain.UmkmFields]{
		catalog: svc.Umkm,
		name:    "umkm",
		create: func(c echo.Context, fields domain.UmkmFields) (*domain.UmkmProduct, error) {
			return svc.Umkm.Create(c.Request().Context(), fields)
		},
	}
	articles := &collectionHandler[domain.Article, domain.ArticleFields]{
		catalog: svc.Articles,
		name:    "article",
		create: func(c echo.Context, fields domain.ArticleFields) (*domain.Article, error) {
			user, ok := CurrentUser(c)
			if !ok {
				return nil, service.ErrInvalidSession
			}
			return svc.Articles.Create(c.Request().Context(), user.ID, fields)
		},
	}
	if svc.Media != nil {
		tourism.upload = svc.Media.AddTourismImage
		umkm.upload = svc.Media.AddUmkmImage
		articles.upload = svc.Media.SetArticleImage
	}
	if svc.Export != nil {
		tourism.export = svc.Export.Tourism
		umkm.export = svc.Export.Umkm
	}

	tourism.register(admin.Group("/tourism"))
	umkm.register(admin.Group("/umkm"))
	articles.register(admin.Group("/articles"))
}
