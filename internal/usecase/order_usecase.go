package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"shop/internal/auth"
	"shop/internal/config"
	"shop/internal/domain/model"
	"shop/internal/metrics"
	repo "shop/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	metrics    *metrics.ShopMetrics
	clock      Clock
	paging     config.PagingConfig
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	m *metrics.ShopMetrics,
	clock Clock,
	paging config.PagingConfig,
) *OrderUsecase {
	return &OrderUsecase{
		tx:         tx,
		orders:     orders,
		orderItems: orderItems,
		metrics:    m,
		clock:      clock,
		paging:     paging,
	}
}

type OrderLineInput struct {
	ProductID int64
	Quantity  int64
}

type PlaceOrderInput struct {
	ReceiverName    string
	ReceiverPhone   string
	ReceiverAddress string
	Remark          string
	Items           []OrderLineInput
}

// 注文＋明細
type OrderOutput struct {
	model.Order
	StatusText string            `json:"status_text"`
	Items      []model.OrderItem `json:"items"`
}

type OrderListOutput struct {
	Items    []OrderOutput `json:"items"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

var errOrderNotFound = NewHTTPError(http.StatusNotFound, "order not found")

// 注文確定。検証・注文作成・明細作成・在庫減算・カート削除を1トランザクションで行う
func (u *OrderUsecase) PlaceOrder(ctx context.Context, ac auth.Context, in PlaceOrderInput) (OrderOutput, error) {
	in.ReceiverName = strings.TrimSpace(in.ReceiverName)
	in.ReceiverPhone = strings.TrimSpace(in.ReceiverPhone)
	in.ReceiverAddress = strings.TrimSpace(in.ReceiverAddress)
	in.Remark = strings.TrimSpace(in.Remark)

	if err := validatePlaceOrder(in); err != nil {
		u.metrics.OrderRejected("invalid_request")
		return OrderOutput{}, err
	}

	// ロックはid昇順で取る
	ids := distinctProductIDs(in.Items)

	var out OrderOutput
	reason := "storage"
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		products, err := r.Products().FindActiveByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[int64]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		// 同じ商品が複数行あれば合計数量で在庫を見る
		need := make(map[int64]int64, len(ids))
		items := make([]model.OrderItem, 0, len(in.Items))
		total := decimal.Zero

		for i, line := range in.Items {
			p, ok := byID[line.ProductID]
			if !ok {
				reason = "product_unavailable"
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("items[%d]: product %d does not exist or is inactive", i, line.ProductID))
			}
			need[p.ID] += line.Quantity
			if p.Stock < need[p.ID] {
				reason = "insufficient_stock"
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("items[%d]: insufficient stock for product %s", i, p.Name))
			}

			// 価格はサーバ側の現在値
			lineTotal := p.Price.Mul(decimal.NewFromInt(line.Quantity))
			total = total.Add(lineTotal)
			items = append(items, model.OrderItem{
				ProductID:    p.ID,
				ProductName:  p.Name,
				ProductImage: p.MainImageURL,
				Price:        p.Price,
				Quantity:     line.Quantity,
				TotalAmount:  model.NewMoney(lineTotal),
			})
		}

		freight := decimal.Zero
		order := model.Order{
			OrderNo:         NewOrderNo(u.clock.Now()),
			Status:          model.OrderStatusPendingPayment,
			TotalAmount:     model.NewMoney(total),
			FreightAmount:   model.NewMoney(freight),
			PayAmount:       model.NewMoney(total.Add(freight)),
			ReceiverName:    in.ReceiverName,
			ReceiverPhone:   in.ReceiverPhone,
			ReceiverAddress: in.ReceiverAddress,
			Remark:          in.Remark,
		}
		userID, loggedIn := ac.UserID()
		if loggedIn {
			order.UserID = &userID
		}

		created, err := r.Orders().Create(ctx, order)
		if err != nil {
			return err
		}
		if err := r.OrderItems().CreateBulk(ctx, created.ID, items); err != nil {
			return err
		}

		// 条件付きUPDATEで減算。ロック済みなので通常は失敗しない
		for _, it := range items {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				reason = "insufficient_stock"
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("insufficient stock for product %s", it.ProductName))
			}
		}

		if loggedIn {
			if _, err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
				return err
			}
		}

		out = toOrderOutput(created, items)
		return nil
	})
	if err != nil {
		u.metrics.OrderRejected(reason)
		return OrderOutput{}, txError(ctx, "place order", err)
	}

	u.metrics.OrderPlaced(out.PayAmount.Decimal)
	return out, nil
}

// 自分の注文一覧。未ログインは空
func (u *OrderUsecase) ListMine(ctx context.Context, ac auth.Context, page int, pageSize int) (OrderListOutput, error) {
	page, pageSize = normalizePage(page, pageSize, u.paging)
	out := OrderListOutput{Items: []OrderOutput{}, Page: page, PageSize: pageSize}

	userID, ok := ac.UserID()
	if !ok {
		return out, nil
	}

	orders, total, err := u.orders.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return OrderListOutput{}, internalError(ctx, "list orders", err)
	}
	items, err := attachItems(ctx, u.orderItems, orders)
	if err != nil {
		return OrderListOutput{}, err
	}
	out.Items = items
	out.Total = total
	return out, nil
}

// 自分の注文の詳細。他人の注文は存在しない扱い
func (u *OrderUsecase) GetMine(ctx context.Context, ac auth.Context, orderID int64) (OrderOutput, error) {
	userID, ok := ac.UserID()
	if !ok {
		return OrderOutput{}, errOrderNotFound
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, errOrderNotFound
	}
	if err != nil {
		return OrderOutput{}, internalError(ctx, "find order", err)
	}
	if o.UserID == nil || *o.UserID != userID {
		return OrderOutput{}, errOrderNotFound
	}

	items, err := u.orderItems.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, internalError(ctx, "list order items", err)
	}
	return toOrderOutput(o, items), nil
}

// ゲスト照会。注文番号と電話番号の片方以上。両方あれば両方一致
func (u *OrderUsecase) Query(ctx context.Context, orderNo string, receiverPhone string) ([]OrderOutput, error) {
	q := repo.OrderLookup{
		OrderNo:       strings.TrimSpace(orderNo),
		ReceiverPhone: strings.TrimSpace(receiverPhone),
	}
	if q.OrderNo == "" && q.ReceiverPhone == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "order_no or receiver_phone is required")
	}

	orders, err := u.orders.FindByLookup(ctx, q)
	if err != nil {
		return nil, internalError(ctx, "lookup orders", err)
	}
	if len(orders) == 0 {
		return nil, NewHTTPError(http.StatusNotFound, "no matching order found")
	}
	return attachItems(ctx, u.orderItems, orders)
}

// 明細をまとめて取って注文ごとに振り分ける
func attachItems(ctx context.Context, orderItems repo.OrderItemRepository, orders []model.Order) ([]OrderOutput, error) {
	if len(orders) == 0 {
		return []OrderOutput{}, nil
	}
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	all, err := orderItems.ListByOrderIDs(ctx, ids)
	if err != nil {
		return nil, internalError(ctx, "list order items", err)
	}
	byOrder := make(map[int64][]model.OrderItem, len(orders))
	for _, it := range all {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}

	out := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderOutput(o, byOrder[o.ID]))
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	if items == nil {
		items = []model.OrderItem{}
	}
	return OrderOutput{
		Order:      o,
		StatusText: o.Status.Label(),
		Items:      items,
	}
}

func validatePlaceOrder(in PlaceOrderInput) error {
	if in.ReceiverName == "" {
		return NewHTTPError(http.StatusBadRequest, "receiver_name is required")
	}
	if in.ReceiverPhone == "" {
		return NewHTTPError(http.StatusBadRequest, "receiver_phone is required")
	}
	if in.ReceiverAddress == "" {
		return NewHTTPError(http.StatusBadRequest, "receiver_address is required")
	}
	if len(in.Items) == 0 {
		return NewHTTPError(http.StatusBadRequest, "items must not be empty")
	}
	for i, line := range in.Items {
		if line.ProductID <= 0 {
			return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("items[%d]: product_id is invalid", i))
		}
		if line.Quantity <= 0 {
			return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("items[%d]: quantity must be greater than 0", i))
		}
	}
	return nil
}

func distinctProductIDs(lines []OrderLineInput) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
