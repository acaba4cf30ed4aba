package usecase

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// ORD + YYYYMMDDHHMMSS + 乱数4桁。一意性はorder_noの一意制約で担保する
func NewOrderNo(now time.Time) string {
	return fmt.Sprintf("ORD%s%04d", now.Format("20060102150405"), rand.IntN(10000))
}
