package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"gallery_admin/internal/catalog/query"
	"gallery_admin/internal/domain/models"
	"gallery_admin/internal/lib/logger/sl"
	exportservice "gallery_admin/internal/services/export_service"
	"gallery_admin/internal/transport/http/dto"
	"gallery_admin/internal/transport/http/dto/response"
)

type AlbumService interface {
	CreateAlbum(ctx context.Context, req dto.CreateAlbumRequest) (models.Album, error)
	ListAlbums(ctx context.Context) ([]models.Album, error)
	UpdateAlbum(ctx context.Context, albumID string, req dto.UpdateAlbumRequest) (dto.UpdateAlbumResult, error)
	DeleteAlbum(ctx context.Context, albumID string) (dto.DeleteAlbumResult, error)
}

type TagService interface {
	CreateTag(ctx context.Context, req dto.CreateTagRequest) (models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	UpdateTag(ctx context.Context, tagID string, req dto.UpdateTagRequest) (dto.UpdateTagResult, error)
	DeleteTag(ctx context.Context, tagID string) (dto.DeleteTagResult, error)
}

type PhotoService interface {
	UploadPhoto(ctx context.Context, input dto.UploadPhotoInput) (models.GalleryItem, error)
	ListPhotos(ctx context.Context) ([]models.GalleryItem, error)
	UpdatePhoto(ctx context.Context, id string, req dto.UpdatePhotoRequest) (dto.PhotoMutationResult, error)
	DeletePhoto(ctx context.Context, id string) (dto.DeletePhotoResult, error)
	PhotosByAlbum(ctx context.Context, ref string, mode query.SortMode, limit int) ([]models.GalleryItem, error)
	PhotosByTag(ctx context.Context, ref string, mode query.SortMode, limit int) ([]models.GalleryItem, error)
}

type ExportService interface {
	CopyGallery(ctx context.Context) (exportservice.ExportSummary, error)
}

type Routers struct {
	log           *slog.Logger
	AlbumService  AlbumService
	TagService    TagService
	PhotoService  PhotoService
	ExportService ExportService
}

func NewRouter(log *slog.Logger, albumService AlbumService, tagService TagService, photoService PhotoService, exportService ExportService) *Routers {
	return &Routers{
		log:           log,
		AlbumService:  albumService,
		TagService:    tagService,
		PhotoService:  photoService,
		ExportService: exportService,
	}
}

func (r *Routers) ListAlbums(c echo.Context) error {
	albums, err := r.AlbumService.ListAlbums(c.Request().Context())
	if err != nil {
		return r.fail(c, "http.routers.ListAlbums", err)
	}

	return c.JSON(http.StatusOK, albums)
}

func (r *Routers) CreateAlbum(c echo.Context) error {
	const op = "http.routers.CreateAlbum"

	var req dto.CreateAlbumRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	album, err := r.AlbumService.CreateAlbum(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(album))
}

func (r *Routers) UpdateAlbum(c echo.Context) error {
	const op = "http.routers.UpdateAlbum"

	var req dto.UpdateAlbumRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	result, err := r.AlbumService.UpdateAlbum(c.Request().Context(), c.Param("albumId"), req)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

func (r *Routers) DeleteAlbum(c echo.Context) error {
	const op = "http.routers.DeleteAlbum"

	result, err := r.AlbumService.DeleteAlbum(c.Request().Context(), c.Param("albumId"))
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

// AlbumPhotos отдает фотографии альбома по id или имени; параметры sort и
// limit опциональны.
func (r *Routers) AlbumPhotos(c echo.Context) error {
	const op = "http.routers.AlbumPhotos"

	items, err := r.PhotoService.PhotosByAlbum(
		c.Request().Context(),
		c.Param("ref"),
		query.ParseSortMode(c.QueryParam("sort")),
		parseLimit(c.QueryParam("limit")),
	)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, items)
}

func (r *Routers) ListTags(c echo.Context) error {
	tags, err := r.TagService.ListTags(c.Request().Context())
	if err != nil {
		return r.fail(c, "http.routers.ListTags", err)
	}

	return c.JSON(http.StatusOK, tags)
}

func (r *Routers) CreateTag(c echo.Context) error {
	const op = "http.routers.CreateTag"

	var req dto.CreateTagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	tag, err := r.TagService.CreateTag(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(tag))
}

func (r *Routers) UpdateTag(c echo.Context) error {
	const op = "http.routers.UpdateTag"

	var req dto.UpdateTagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	result, err := r.TagService.UpdateTag(c.Request().Context(), c.Param("tagId"), req)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

func (r *Routers) DeleteTag(c echo.Context) error {
	const op = "http.routers.DeleteTag"

	result, err := r.TagService.DeleteTag(c.Request().Context(), c.Param("tagId"))
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

func (r *Routers) TagPhotos(c echo.Context) error {
	const op = "http.routers.TagPhotos"

	items, err := r.PhotoService.PhotosByTag(
		c.Request().Context(),
		c.Param("ref"),
		query.ParseSortMode(c.QueryParam("sort")),
		parseLimit(c.QueryParam("limit")),
	)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, items)
}

func (r *Routers) ListPhotos(c echo.Context) error {
	items, err := r.PhotoService.ListPhotos(c.Request().Context())
	if err != nil {
		return r.fail(c, "http.routers.ListPhotos", err)
	}

	return c.JSON(http.StatusOK, items)
}

// UploadPhoto принимает multipart-форму. Дата по умолчанию — сегодняшняя:
// подставляется здесь, на внешнем слое, а не в сервисе.
func (r *Routers) UploadPhoto(c echo.Context) error {
	const op = "http.routers.UploadPhoto"

	log := r.log.With(slog.String("op", op))

	file, err := c.FormFile("photo")
	if err != nil {
		log.Warn("no file in upload request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("no_file", "multipart field 'photo' is required"))
	}

	now := time.Now()
	input := dto.UploadPhotoInput{
		File:         file,
		FilenameBase: c.FormValue("filename"),
		Year:         formIntOr(c, "year", now.Year()),
		Month:        formIntOr(c, "month", int(now.Month())),
		Day:          formIntOr(c, "day", now.Day()),
		AlbumID:      c.FormValue("albumId"),
		TagID:        c.FormValue("tagId"),
	}

	item, err := r.PhotoService.UploadPhoto(c.Request().Context(), input)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(item))
}

func (r *Routers) UpdatePhoto(c echo.Context) error {
	const op = "http.routers.UpdatePhoto"

	var req dto.UpdatePhotoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	result, err := r.PhotoService.UpdatePhoto(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

func (r *Routers) DeletePhoto(c echo.Context) error {
	const op = "http.routers.DeletePhoto"

	result, err := r.PhotoService.DeletePhoto(c.Request().Context(), c.Param("id"))
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

func (r *Routers) CopyGallery(c echo.Context) error {
	const op = "http.routers.CopyGallery"

	summary, err := r.ExportService.CopyGallery(c.Request().Context())
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, dto.ExportResult{
		CopiedFiles: summary.CopiedFiles,
		Warnings:    summary.Warnings,
	})
}

func (r *Routers) fail(c echo.Context, op string, err error) error {
	status, resp := response.FromError(err)
	if status == http.StatusInternalServerError {
		r.log.Error("request failed", slog.String("op", op), sl.Err(err))
	}

	return c.JSON(status, resp)
}

func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}

	return n
}

func formIntOr(c echo.Context, field string, def int) int {
	raw := c.FormValue(field)
	if raw == "" {
		return def
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}

	return n
}
