package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gallery_admin/internal/middleware"
	httprouters "gallery_admin/internal/transport/http"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	log        *slog.Logger
	e          *echo.Echo
	routers    *httprouters.Routers
	host       string
	port       string
	uploadsDir string
}

func New(log *slog.Logger, host, port, uploadsDir string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(echomw.CORS())
	e.Use(echomw.Recover())
	e.Use(middleware.PrometheusMetrics)

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	return &Server{
		log:        log,
		e:          e,
		routers:    routers,
		host:       host,
		port:       port,
		uploadsDir: uploadsDir,
	}
}

func (s *Server) BuildRouters() {
	api := s.e.Group("/api")
	{
		albums := api.Group("/albums")
		{
			albums.GET("", s.routers.ListAlbums)
			albums.POST("", s.routers.CreateAlbum)
			albums.PATCH("/:albumId", s.routers.UpdateAlbum)
			albums.DELETE("/:albumId", s.routers.DeleteAlbum)
			albums.GET("/:ref/photos", s.routers.AlbumPhotos)
		}

		tags := api.Group("/tags")
		{
			tags.GET("", s.routers.ListTags)
			tags.POST("", s.routers.CreateTag)
			tags.PATCH("/:tagId", s.routers.UpdateTag)
			tags.DELETE("/:tagId", s.routers.DeleteTag)
			tags.GET("/:ref/photos", s.routers.TagPhotos)
		}

		photos := api.Group("/photos")
		{
			photos.GET("", s.routers.ListPhotos)
			photos.POST("", s.routers.UploadPhoto)
			photos.PATCH("/:id", s.routers.UpdatePhoto)
			photos.DELETE("/:id", s.routers.DeletePhoto)
		}

		api.POST("/export/copy-gallery", s.routers.CopyGallery)
	}

	// Загрузки раздаются статикой, как в исходной админке.
	s.e.Static("/uploads", s.uploadsDir)

	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf("%s:%s", s.host, s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}
