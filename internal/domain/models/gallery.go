package models

// GalleryItem is one cataloged photo. AlbumID and TagID are soft references:
// an empty string means unassigned, and deleting the referenced album or tag
// clears the field instead of blocking.
type GalleryItem struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	Path          string `json:"path"`
	ThumbnailPath string `json:"thumbnailPath"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Day           int    `json:"day"`
	AlbumID       string `json:"albumId"`
	TagID         string `json:"tagId"`
}
