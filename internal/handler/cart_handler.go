package handler

import (
	"net/http"

	"shop/internal/auth"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP（ログイン必須）
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type addCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int64 `json:"quantity" validate:"gte=0"`
}

type updateCartItemRequest struct {
	Quantity int64 `json:"quantity" validate:"required"`
}

func (h *CartHandler) RegisterRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.GET("/cart", h.getCart, mw...)
	g.POST("/cart/add", h.add, mw...)
	g.DELETE("/cart/clear", h.clear, mw...)
	g.PUT("/cart/:id", h.updateItem, mw...)
	g.DELETE("/cart/:id", h.deleteItem, mw...)
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), auth.FromEcho(c))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *CartHandler) add(c echo.Context) error {
	var req addCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	item, err := h.uc.Add(c.Request().Context(), auth.FromEcho(c), req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return okWithMessage(c, "added to cart", item)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	itemID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req updateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.UpdateQuantity(c.Request().Context(), auth.FromEcho(c), itemID, req.Quantity); err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, "cart item updated", nil)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	itemID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Remove(c.Request().Context(), auth.FromEcho(c), itemID); err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, "cart item removed", nil)
}

func (h *CartHandler) clear(c echo.Context) error {
	if err := h.uc.Clear(c.Request().Context(), auth.FromEcho(c)); err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, "cart cleared", nil)
}
