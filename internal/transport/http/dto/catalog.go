package dto

import "gallery_admin/internal/domain/models"

type CreateAlbumRequest struct {
	Name    string `json:"name" validate:"required"`
	Desc    string `json:"desc"`
	AlbumID string `json:"albumId"`
}

// UpdateAlbumRequest — частичное обновление: nil-поле не трогает запись.
// ReplaceID меняет идентификатор альбома с каскадом по галерее.
type UpdateAlbumRequest struct {
	Name      *string `json:"name"`
	Desc      *string `json:"desc"`
	Published *bool   `json:"published"`
	ReplaceID *string `json:"replaceId"`
}

type UpdateAlbumResult struct {
	Album         models.Album `json:"album"`
	UpdatedPhotos int          `json:"updatedPhotos"`
}

type DeleteAlbumResult struct {
	UnlinkedPhotos int `json:"unlinkedPhotos"`
}

type CreateTagRequest struct {
	Name  string `json:"name" validate:"required"`
	Desc  string `json:"desc"`
	TagID string `json:"tagId"`
}

type UpdateTagRequest struct {
	Name      *string `json:"name"`
	Desc      *string `json:"desc"`
	ReplaceID *string `json:"replaceId"`
}

type UpdateTagResult struct {
	Tag           models.Tag `json:"tag"`
	UpdatedPhotos int        `json:"updatedPhotos"`
}

type DeleteTagResult struct {
	UnlinkedPhotos int `json:"unlinkedPhotos"`
}
