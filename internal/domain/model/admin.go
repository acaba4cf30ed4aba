package model

import "time"

// 管理者。会員（User）とは別テーブル
type Admin struct {
	ID           int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string        `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string        `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Name         string        `gorm:"type:varchar(50)" json:"name"`
	Status       AccountStatus `gorm:"not null" json:"status"`
	LastLoginAt  *time.Time    `json:"last_login_at"`
	CreatedAt    time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (a Admin) IsActive() bool {
	return a.Status == AccountStatusActive
}
