package model

import "time"

// 配送先住所
type UserAddress struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	//宛名・電話
	ReceiverName  string `gorm:"type:varchar(50);not null" json:"receiver_name"`
	ReceiverPhone string `gorm:"type:varchar(20);not null" json:"receiver_phone"`

	Province   string `gorm:"type:varchar(50);not null" json:"province"`
	City       string `gorm:"type:varchar(50);not null" json:"city"`
	District   string `gorm:"type:varchar(50)" json:"district"`
	Address    string `gorm:"type:varchar(200);not null" json:"address"`
	PostalCode string `gorm:"type:varchar(20)" json:"postal_code"`

	//このユーザーのデフォルト住所か
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 注文に載せる1行の住所
func (a UserAddress) FullAddress() string {
	s := a.Province + a.City
	if a.District != "" {
		s += a.District
	}
	return s + a.Address
}
