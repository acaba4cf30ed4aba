package usecase

import (
	"time"

	"shop/internal/config"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ページ番号とサイズを丸める
func normalizePage(page int, pageSize int, p config.PagingConfig) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = p.DefaultPageSize
	}
	if pageSize > p.MaxPageSize {
		pageSize = p.MaxPageSize
	}
	return page, pageSize
}
