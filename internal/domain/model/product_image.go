package model

import "time"

// 商品画像。商品削除で一緒に消える
type ProductImage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	ImageURL  string    `gorm:"type:varchar(500);not null" json:"image_url"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
