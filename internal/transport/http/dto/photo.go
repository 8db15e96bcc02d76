package dto

import (
	"mime/multipart"

	"gallery_admin/internal/domain/models"
)

// UploadPhotoInput собирается транспортом из multipart-формы; дата по
// умолчанию (сегодня) подставляется там же, а не в сервисе.
type UploadPhotoInput struct {
	File         *multipart.FileHeader
	FilenameBase string
	Year         int
	Month        int
	Day          int
	AlbumID      string
	TagID        string
}

// UpdatePhotoRequest — частичный патч. Поля дат приходят строками и
// разбираются лениво: нечисловое значение оставляет старое.
type UpdatePhotoRequest struct {
	FilenameBase *string `json:"filename"`
	Year         *string `json:"year"`
	Month        *string `json:"month"`
	Day          *string `json:"day"`
	AlbumID      *string `json:"albumId"`
	TagID        *string `json:"tagId"`
}

// PhotoMutationResult carries the primary outcome plus non-fatal warnings
// from secondary file operations (thumbnail rename, file deletion).
type PhotoMutationResult struct {
	Item     models.GalleryItem `json:"item"`
	Warnings []string           `json:"warnings,omitempty"`
}

type DeletePhotoResult struct {
	Warnings []string `json:"warnings,omitempty"`
}

type ExportResult struct {
	CopiedFiles int      `json:"copiedFiles"`
	Warnings    []string `json:"warnings,omitempty"`
}
