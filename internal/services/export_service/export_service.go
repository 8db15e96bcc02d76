package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gallery_admin/internal/domain/apperr"
	"gallery_admin/internal/lib/logger/sl"
	"gallery_admin/internal/lib/naming"
	"gallery_admin/internal/repository"
	"gallery_admin/internal/storage/jsondoc"
)

// ExportService копирует текущее состояние каталога (документы + картинки)
// в каталог публикации, откуда его забирает витрина портфолио.
type ExportService struct {
	log        *slog.Logger
	gallery    repository.GalleryRepository
	docs       *jsondoc.Store
	uploadsDir string
	publishDir string
}

type ExportSummary struct {
	CopiedFiles int
	Warnings    []string
}

func NewExportService(log *slog.Logger, gallery repository.GalleryRepository, docs *jsondoc.Store, uploadsDir, publishDir string) *ExportService {
	return &ExportService{
		log:        log,
		gallery:    gallery,
		docs:       docs,
		uploadsDir: uploadsDir,
		publishDir: publishDir,
	}
}

// CopyGallery переносит три документа и все файлы, на которые ссылается
// галерея. Отказ копирования документа фатален; отказ на отдельной
// картинке — предупреждение.
func (s *ExportService) CopyGallery(ctx context.Context) (ExportSummary, error) {
	const op = "service.ExportService.CopyGallery"
	log := s.log.With(slog.String("op", op))

	log.Info("exporting gallery", slog.String("publish_dir", s.publishDir))

	summary := ExportSummary{}

	dataDst := filepath.Join(s.publishDir, "data")
	photosDst := filepath.Join(s.publishDir, "uploads", "photos")

	for _, dir := range []string{dataDst, photosDst} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return ExportSummary{}, apperr.IO("create publish dir", err)
		}
	}

	for _, kind := range []jsondoc.Kind{jsondoc.KindAlbums, jsondoc.KindTags, jsondoc.KindGallery} {
		src := s.docs.Path(kind)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			// Отсутствующий документ — пустой каталог, копировать нечего.
			continue
		}

		if err := copyFile(src, filepath.Join(dataDst, string(kind))); err != nil {
			log.Error("failed to copy document", sl.Err(err))
			return ExportSummary{}, apperr.IO("copy "+string(kind), err)
		}
		summary.CopiedFiles++
	}

	items, err := s.gallery.Items(ctx)
	if err != nil {
		return ExportSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, item := range items {
		names := []string{item.Filename}
		if item.ThumbnailPath != "" {
			names = append(names, naming.ThumbnailName(item.Filename))
		}

		for _, name := range names {
			src := filepath.Join(s.uploadsDir, "photos", name)
			if err := copyFile(src, filepath.Join(photosDst, name)); err != nil {
				log.Warn("failed to copy image", slog.String("file", name), sl.Err(err))
				summary.Warnings = append(summary.Warnings, fmt.Sprintf("copy %s failed: %v", name, err))
				continue
			}
			summary.CopiedFiles++
		}
	}

	log.Info("export finished",
		slog.Int("copied_files", summary.CopiedFiles),
		slog.Int("warnings", len(summary.Warnings)),
	)

	return summary, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
