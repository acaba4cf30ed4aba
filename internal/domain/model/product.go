package model

import "time"

type ProductStatus int

const (
	ProductStatusOffShelf ProductStatus = 0
	ProductStatusOnShelf  ProductStatus = 1
)

type Product struct {
	ID            int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID    int64            `gorm:"not null;index" json:"category_id"`
	Category      *Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
	Name          string           `gorm:"type:varchar(200);not null;index" json:"name"`
	Subtitle      string           `gorm:"type:varchar(200)" json:"subtitle"`
	MainImageURL  string           `gorm:"type:varchar(500)" json:"main_image_url"`
	Detail        string           `gorm:"type:text" json:"detail"`
	Price         Money            `gorm:"type:decimal(10,2);not null" json:"price"`
	OriginalPrice *Money           `gorm:"type:decimal(10,2)" json:"original_price"`
	Stock         int64            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	SalesCount    int64            `gorm:"not null;default:0" json:"sales_count"`
	ViewCount     int64            `gorm:"not null;default:0" json:"view_count"`
	Status        ProductStatus    `gorm:"not null;index" json:"status"`
	SortOrder     int              `gorm:"not null;default:0;index" json:"sort_order"`
	CreatedAt     time.Time        `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (p Product) IsActive() bool {
	return p.Status == ProductStatusOnShelf
}
