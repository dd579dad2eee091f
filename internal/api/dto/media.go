package dto

type MediaUploadDTO struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	MimeType string `json:"mime"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int64  `json:"size"`
	Original string `json:"original"`
}
