package repository

import (
	"context"

	"gallery_admin/internal/domain/models"
	"gallery_admin/internal/storage/jsondoc"
)

type TagRepo struct {
	store *jsondoc.Store
}

func NewTagRepository(store *jsondoc.Store) *TagRepo {
	return &TagRepo{store: store}
}

func (r *TagRepo) Tags(ctx context.Context) ([]models.Tag, error) {
	return jsondoc.Read[models.Tag](ctx, r.store, jsondoc.KindTags)
}

func (r *TagRepo) SaveTags(ctx context.Context, tags []models.Tag) error {
	return jsondoc.Write(ctx, r.store, jsondoc.KindTags, tags)
}
