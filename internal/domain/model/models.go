package model

// AutoMigrateの対象。親テーブルが先
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Product{},
		&ProductImage{},
		&User{},
		&Admin{},
		&UserAddress{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&InventoryAdjustment{},
		&AuditLog{},
	}
}
