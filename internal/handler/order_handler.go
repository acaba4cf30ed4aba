package handler

import (
	"fmt"

	"shop/internal/auth"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /orders（ゲストも注文・照会できる）
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type orderLineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type placeOrderRequest struct {
	ReceiverName    string             `json:"receiver_name" validate:"max=50"`
	ReceiverPhone   string             `json:"receiver_phone" validate:"max=20"`
	ReceiverAddress string             `json:"receiver_address" validate:"max=500"`
	Remark          string             `json:"remark" validate:"max=500"`
	Items           []orderLineRequest `json:"items"`
}

type queryOrderRequest struct {
	OrderNo       string `json:"order_no" query:"order_no"`
	ReceiverPhone string `json:"receiver_phone" query:"receiver_phone"`
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/orders", h.create)
	g.GET("/orders", h.list)
	g.GET("/orders/query", h.query)
	g.POST("/orders/query", h.query)
	g.GET("/orders/:id", h.get)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req placeOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	lines := make([]usecase.OrderLineInput, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, usecase.OrderLineInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), auth.FromEcho(c), usecase.PlaceOrderInput{
		ReceiverName:    req.ReceiverName,
		ReceiverPhone:   req.ReceiverPhone,
		ReceiverAddress: req.ReceiverAddress,
		Remark:          req.Remark,
		Items:           lines,
	})
	if err != nil {
		return writeError(c, err)
	}
	return created(c, "order created successfully", out)
}

// 未ログインなら空の一覧
func (h *OrderHandler) list(c echo.Context) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return writeError(c, err)
	}
	pageSize, err := queryInt(c, "page_size")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListMine(c.Request().Context(), auth.FromEcho(c), page, pageSize)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *OrderHandler) get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetMine(c.Request().Context(), auth.FromEcho(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

// 1件ならオブジェクト、複数なら配列
func (h *OrderHandler) query(c echo.Context) error {
	var req queryOrderRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.NewHTTPError(400, "invalid request body"))
	}

	orders, err := h.uc.Query(c.Request().Context(), req.OrderNo, req.ReceiverPhone)
	if err != nil {
		return writeError(c, err)
	}
	if len(orders) == 1 {
		return ok(c, orders[0])
	}
	return okWithMessage(c, fmt.Sprintf("found %d orders", len(orders)), orders)
}
