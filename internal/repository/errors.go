package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// 一意制約違反（username / order_no など）
	ErrDuplicate = errors.New("duplicate")
	// 外部キーで参照されていて消せない
	ErrReferenced = errors.New("referenced")
)
