package repository

import (
	"context"

	"gallery_admin/internal/domain/models"
	"gallery_admin/internal/storage/jsondoc"
)

type GalleryRepo struct {
	store *jsondoc.Store
}

func NewGalleryRepository(store *jsondoc.Store) *GalleryRepo {
	return &GalleryRepo{store: store}
}

func (r *GalleryRepo) Items(ctx context.Context) ([]models.GalleryItem, error) {
	return jsondoc.Read[models.GalleryItem](ctx, r.store, jsondoc.KindGallery)
}

func (r *GalleryRepo) SaveItems(ctx context.Context, items []models.GalleryItem) error {
	return jsondoc.Write(ctx, r.store, jsondoc.KindGallery, items)
}
