package es

import "time"

// DreamES 写入 ES 的梦境文档，search_* 字段为简体化后的检索文本
type DreamES struct {
	ID            uint64    `json:"id"`
	UserID        uint64    `json:"user_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	SearchTitle   string    `json:"search_title"`
	SearchContent string    `json:"search_content"`
	DreamDate     time.Time `json:"dream_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
