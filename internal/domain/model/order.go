package model

import "time"

type OrderStatus int

const (
	OrderStatusPendingPayment  OrderStatus = 1
	OrderStatusPendingShipment OrderStatus = 2
	OrderStatusPendingReceipt  OrderStatus = 3
	OrderStatusCompleted       OrderStatus = 4
	OrderStatusCancelled       OrderStatus = 5
)

func (s OrderStatus) Valid() bool {
	return s >= OrderStatusPendingPayment && s <= OrderStatusCancelled
}

// 完了・キャンセルは変更不可
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// 前進のみ。キャンセルはどの未終端状態からでも可
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() || !next.Valid() {
		return false
	}
	return next > s
}

func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPendingPayment:
		return "pending_payment"
	case OrderStatusPendingShipment:
		return "pending_shipment"
	case OrderStatusPendingReceipt:
		return "pending_receipt"
	case OrderStatusCompleted:
		return "completed"
	case OrderStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// 注文。受取人情報はログイン有無に関わらず注文ごとに持つ
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNo         string          `gorm:"type:varchar(32);not null;uniqueIndex" json:"order_no"`
	UserID          *int64          `gorm:"index" json:"user_id"`
	User            *User           `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Status          OrderStatus     `gorm:"not null;default:1;index" json:"status"`
	TotalAmount     Money           `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	FreightAmount   Money           `gorm:"type:decimal(10,2);not null;default:0" json:"freight_amount"`
	PayAmount       Money           `gorm:"type:decimal(10,2);not null" json:"pay_amount"`
	ReceiverName    string          `gorm:"type:varchar(50);not null" json:"receiver_name"`
	ReceiverPhone   string          `gorm:"type:varchar(20);not null;index" json:"receiver_phone"`
	ReceiverAddress string          `gorm:"type:varchar(500);not null" json:"receiver_address"`
	Remark          string          `gorm:"type:varchar(500)" json:"remark"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
