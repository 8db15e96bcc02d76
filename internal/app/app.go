package app

import (
	"log/slog"

	httpapp "gallery_admin/internal/app/http"
	"gallery_admin/internal/config"
	"gallery_admin/internal/repository"
	albumservice "gallery_admin/internal/services/album_service"
	exportservice "gallery_admin/internal/services/export_service"
	photoservice "gallery_admin/internal/services/photo_service"
	tagservice "gallery_admin/internal/services/tag_service"
	storage "gallery_admin/internal/storage/filestorage"
	"gallery_admin/internal/storage/jsondoc"
	httprouters "gallery_admin/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
}

func New(log *slog.Logger, cfg *config.Config) *App {
	docs, err := jsondoc.NewStore(cfg.Catalog.DataDir)
	if err != nil {
		panic(err)
	}

	files, err := storage.NewLocalFileStorage(cfg.Uploads.BaseDir, cfg.Uploads.BaseURL)
	if err != nil {
		panic(err)
	}

	albumRepo := repository.NewAlbumRepository(docs)
	tagRepo := repository.NewTagRepository(docs)
	galleryRepo := repository.NewGalleryRepository(docs)

	albumService := albumservice.NewAlbumService(log, albumRepo, galleryRepo)
	tagService := tagservice.NewTagService(log, tagRepo, galleryRepo)
	photoService := photoservice.NewPhotoService(log, albumRepo, tagRepo, galleryRepo, files)
	exportService := exportservice.NewExportService(log, galleryRepo, docs, cfg.Uploads.BaseDir, cfg.Export.PublishDir)

	routers := httprouters.NewRouter(log, albumService, tagService, photoService, exportService)

	server := httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, cfg.Uploads.BaseDir, routers)

	return &App{
		HTTPServer: server,
	}
}
