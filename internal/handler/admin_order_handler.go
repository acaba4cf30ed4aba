package handler

import (
	"fmt"
	"net/http"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// 管理画面: 注文・監査ログ
type AdminOrderHandler struct {
	orders *usecase.AdminOrderUsecase
	audits *usecase.AuditLogUsecase
}

func NewAdminOrderHandler(orders *usecase.AdminOrderUsecase, audits *usecase.AuditLogUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders, audits: audits}
}

type updateOrderStatusRequest struct {
	Status int `json:"status" validate:"required"`
}

func (h *AdminOrderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/orders", h.list)
	g.GET("/orders/export", h.export)
	g.GET("/orders/:id", h.get)
	g.PUT("/orders/:id/update_status", h.updateStatus)
	g.PATCH("/orders/:id/update_status", h.updateStatus)

	g.GET("/audit-logs", h.listAuditLogs)
}

// ?page=&page_size=&status=&order_no=&receiver_phone=&user_id=&from=&to=
func orderFilter(c echo.Context) (repo.AdminOrderListFilter, error) {
	var f repo.AdminOrderListFilter
	var err error

	if f.Page, err = queryInt(c, "page"); err != nil {
		return f, err
	}
	if f.PageSize, err = queryInt(c, "page_size"); err != nil {
		return f, err
	}
	status, err := queryInt64Ptr(c, "status")
	if err != nil {
		return f, err
	}
	if status != nil {
		s := model.OrderStatus(*status)
		f.Status = &s
	}
	if f.UserID, err = queryInt64Ptr(c, "user_id"); err != nil {
		return f, err
	}
	if f.From, err = usecase.ParseDateTime(c.QueryParam("from")); err != nil {
		return f, err
	}
	if f.To, err = usecase.ParseDateTime(c.QueryParam("to")); err != nil {
		return f, err
	}
	f.OrderNo = strings.TrimSpace(c.QueryParam("order_no"))
	f.ReceiverPhone = strings.TrimSpace(c.QueryParam("receiver_phone"))
	return f, nil
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	f, err := orderFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.orders.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *AdminOrderHandler) get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.orders.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	adminID, err := actorAdminID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req updateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.orders.UpdateStatus(c.Request().Context(), adminID, id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return okWithMessage(c, "order status updated successfully", out)
}

// 一覧と同じ条件でxlsxを返す（ページングなし）
func (h *AdminOrderHandler) export(c echo.Context) error {
	f, err := orderFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	file, err := h.orders.Export(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	filename := fmt.Sprintf("orders_%s.xlsx", now().Format("20060102150405"))
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, xlsxContentType)
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	res.WriteHeader(http.StatusOK)
	return file.Write(res)
}

// ?actor_admin_id=&action=&resource_type=&resource_id=&from=&to=&limit=&offset=
func (h *AdminOrderHandler) listAuditLogs(c echo.Context) error {
	var f repo.AuditLogFilter
	var err error

	if f.ActorAdminID, err = queryInt64Ptr(c, "actor_admin_id"); err != nil {
		return writeError(c, err)
	}
	if f.ResourceID, err = queryInt64Ptr(c, "resource_id"); err != nil {
		return writeError(c, err)
	}
	if v := strings.TrimSpace(c.QueryParam("action")); v != "" {
		a := model.AuditAction(strings.ToUpper(v))
		f.Action = &a
	}
	if v := strings.TrimSpace(c.QueryParam("resource_type")); v != "" {
		rt := model.AuditResourceType(strings.ToLower(v))
		f.ResourceType = &rt
	}
	if f.CreatedFrom, err = usecase.ParseDateTime(c.QueryParam("from")); err != nil {
		return writeError(c, err)
	}
	if f.CreatedTo, err = usecase.ParseDateTime(c.QueryParam("to")); err != nil {
		return writeError(c, err)
	}
	if f.Limit, err = queryInt(c, "limit"); err != nil {
		return writeError(c, err)
	}
	if f.Offset, err = queryInt(c, "offset"); err != nil {
		return writeError(c, err)
	}

	logs, err := h.audits.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, logs)
}
