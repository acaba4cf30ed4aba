package model

import "github.com/shopspring/decimal"

// 金額。DBはdecimal(10,2)、JSONは小数2桁固定の文字列
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// テストや定数用。不正な文字列ならpanic
func MustMoney(s string) Money {
	return Money{Decimal: decimal.RequireFromString(s)}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}
