package model

import "time"

type AuditAction string

const (
	AuditActionCreateProduct     AuditAction = "CREATE_PRODUCT"
	AuditActionUpdateProduct     AuditAction = "UPDATE_PRODUCT"
	AuditActionDeleteProduct     AuditAction = "DELETE_PRODUCT"
	AuditActionUpdateStock       AuditAction = "UPDATE_STOCK"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionCreateCategory    AuditAction = "CREATE_CATEGORY"
	AuditActionUpdateCategory    AuditAction = "UPDATE_CATEGORY"
	AuditActionDeleteCategory    AuditAction = "DELETE_CATEGORY"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct  AuditResourceType = "product"
	AuditResourceOrder    AuditResourceType = "order"
	AuditResourceCategory AuditResourceType = "category"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorAdminID int64             `gorm:"not null;index" json:"actor_admin_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`
	BeforeJSON   string            `gorm:"type:text" json:"before_json"`
	AfterJSON    string            `gorm:"type:text" json:"after_json"`
	CreatedAt    time.Time         `gorm:"not null;index" json:"created_at"`
}
