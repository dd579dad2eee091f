package dto

// PageDTO 通用 limit/offset 分页参数，默认值由调用方预先填充
type PageDTO struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset" validate:"gte=0"`
}
