package model

import "time"

// 注文明細。作成時点の商品名・画像・価格をスナップショットで持つ
type OrderItem struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64           `gorm:"not null;index" json:"order_id"`
	Order        *Order          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	ProductID    int64           `gorm:"not null;index" json:"product_id"`
	Product      *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
	ProductName  string          `gorm:"type:varchar(200);not null" json:"product_name"`
	ProductImage string          `gorm:"type:varchar(500)" json:"product_image"`
	Price        Money           `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity     int64           `gorm:"not null" json:"quantity"`
	TotalAmount  Money           `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
