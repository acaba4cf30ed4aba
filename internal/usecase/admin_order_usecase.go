package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shop/internal/config"
	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/tealeg/xlsx"
)

type AdminOrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	paging     config.PagingConfig
	clock      Clock
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	paging config.PagingConfig,
	clock Clock,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		tx:         tx,
		orders:     orders,
		orderItems: orderItems,
		paging:     paging,
		clock:      clock,
	}
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (OrderListOutput, error) {
	if err := validateOrderFilter(f); err != nil {
		return OrderListOutput{}, err
	}
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize, u.paging)

	orders, total, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return OrderListOutput{}, internalError(ctx, "list admin orders", err)
	}
	items, err := attachItems(ctx, u.orderItems, orders)
	if err != nil {
		return OrderListOutput{}, err
	}
	return OrderListOutput{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// 注文詳細
func (u *AdminOrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, errOrderNotFound
	}
	if err != nil {
		return OrderOutput{}, internalError(ctx, "find order", err)
	}
	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, internalError(ctx, "list order items", err)
	}
	return toOrderOutput(o, items), nil
}

// ステータス更新（キャンセルなら在庫戻し）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminID int64, orderID int64, status int) (OrderOutput, error) {
	if actorAdminID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	newStatus := model.OrderStatus(status)
	if !newStatus.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order status, valid values: [1 2 3 4 5]")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errOrderNotFound
		}
		if err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		// すでに同じなら何もしない
		if o.Status == newStatus {
			out = toOrderOutput(o, items)
			return nil
		}
		// 終端ガード
		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("cannot change %s order", o.Status.Label()))
		}
		if !o.Status.CanTransitionTo(newStatus) {
			return NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("cannot change order status from %s to %s", o.Status.Label(), newStatus.Label()))
		}

		// 出荷前のキャンセルだけ在庫と販売数を戻す
		if newStatus == model.OrderStatusCancelled &&
			(o.Status == model.OrderStatusPendingPayment || o.Status == model.OrderStatusPendingShipment) {
			for _, it := range items {
				if err := r.Inventory().RestoreStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			return err
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorAdminID: actorAdminID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   fmt.Sprintf(`{"status":%d}`, o.Status),
			AfterJSON:    fmt.Sprintf(`{"status":%d}`, newStatus),
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return err
		}

		o.Status = newStatus
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, txError(ctx, "update order status", err)
	}
	return out, nil
}

var exportHeaders = []string{
	"OrderNo", "Status", "UserID", "ReceiverName", "ReceiverPhone", "ReceiverAddress",
	"TotalAmount", "FreightAmount", "PayAmount", "Items", "Remark", "CreatedAt",
}

// 絞り込み条件に合う注文を全件xlsxにする
func (u *AdminOrderUsecase) Export(ctx context.Context, f repo.AdminOrderListFilter) (*xlsx.File, error) {
	if err := validateOrderFilter(f); err != nil {
		return nil, err
	}
	f.Page, f.PageSize = 1, 0

	orders, _, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return nil, internalError(ctx, "list admin orders", err)
	}
	outs, err := attachItems(ctx, u.orderItems, orders)
	if err != nil {
		return nil, err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, internalError(ctx, "create sheet", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range outs {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.OrderNo)
		row.AddCell().SetValue(o.Status.Label())
		if o.UserID != nil {
			row.AddCell().SetValue(*o.UserID)
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(o.ReceiverName)
		row.AddCell().SetValue(o.ReceiverPhone)
		row.AddCell().SetValue(o.ReceiverAddress)
		row.AddCell().SetValue(o.TotalAmount.StringFixed(2))
		row.AddCell().SetValue(o.FreightAmount.StringFixed(2))
		row.AddCell().SetValue(o.PayAmount.StringFixed(2))

		lines := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			lines = append(lines, fmt.Sprintf("%s x%d", it.ProductName, it.Quantity))
		}
		row.AddCell().SetValue(strings.Join(lines, ", "))
		row.AddCell().SetValue(o.Remark)
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return file, nil
}

func validateOrderFilter(f repo.AdminOrderListFilter) error {
	if f.Status != nil && !f.Status.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return NewHTTPError(http.StatusBadRequest, "from must be before to")
	}
	return nil
}

// 期間パラメータはRFC3339か日付のみ
func ParseDateTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid datetime: "+s)
	}
	return &t, nil
}
