package models

// Album — именованная категория фотографий. Имя уникально без учёта
// регистра и диакритики, albumId уникален в пределах документа.
type Album struct {
	AlbumID   string `json:"albumId"`
	Name      string `json:"name"`
	Desc      string `json:"desc,omitempty"`
	Published bool   `json:"published"`
}

// Tag — независимое от альбомов пространство имён с тем же жизненным циклом.
type Tag struct {
	TagID string `json:"tagId"`
	Name  string `json:"name"`
	Desc  string `json:"desc,omitempty"`
}
