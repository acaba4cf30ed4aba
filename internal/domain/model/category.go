package model

import "time"

// 商品カテゴリ。parent_id=0 がトップ、最大2階層
type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ParentID  int64     `gorm:"not null;default:0;index" json:"parent_id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	ImageURL  string    `gorm:"type:varchar(500)" json:"image_url"`
	SortOrder int       `gorm:"not null;default:0;index" json:"sort_order"`
	IsShow    bool      `gorm:"not null" json:"is_show"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (c Category) IsTopLevel() bool {
	return c.ParentID == 0
}

// カテゴリツリーの1ノード
type CategoryNode struct {
	Category
	Children []CategoryNode `json:"children"`
}
