package model

import "time"

type AccountStatus int

const (
	AccountStatusDisabled AccountStatus = 0
	AccountStatusActive   AccountStatus = 1
)

type User struct {
	ID           int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string        `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string        `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Nickname     string        `gorm:"type:varchar(50)" json:"nickname"`
	AvatarURL    string        `gorm:"type:varchar(500)" json:"avatar_url"`
	Status       AccountStatus `gorm:"not null" json:"status"`
	LastLoginAt  *time.Time    `json:"last_login_at"`
	CreatedAt    time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (u User) IsActive() bool {
	return u.Status == AccountStatusActive
}
