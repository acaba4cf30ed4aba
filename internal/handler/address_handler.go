package handler

import (
	"net/http"

	"shop/internal/auth"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /addresses（ログイン必須）
type AddressHandler struct {
	uc *usecase.AddressUsecase
}

func NewAddressHandler(uc *usecase.AddressUsecase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

type addressRequest struct {
	ReceiverName  string `json:"receiver_name" validate:"required,max=50"`
	ReceiverPhone string `json:"receiver_phone" validate:"required,max=20"`
	Province      string `json:"province" validate:"required,max=50"`
	City          string `json:"city" validate:"required,max=50"`
	District      string `json:"district" validate:"max=50"`
	Address       string `json:"address" validate:"required,max=200"`
	PostalCode    string `json:"postal_code" validate:"max=20"`
	IsDefault     bool   `json:"is_default"`
}

func (r addressRequest) toInput() usecase.AddressInput {
	return usecase.AddressInput{
		ReceiverName:  r.ReceiverName,
		ReceiverPhone: r.ReceiverPhone,
		Province:      r.Province,
		City:          r.City,
		District:      r.District,
		Address:       r.Address,
		PostalCode:    r.PostalCode,
		IsDefault:     r.IsDefault,
	}
}

func (h *AddressHandler) RegisterRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.GET("/addresses", h.list, mw...)
	g.POST("/addresses", h.create, mw...)
	g.GET("/addresses/:id", h.get, mw...)
	g.PUT("/addresses/:id", h.update, mw...)
	g.DELETE("/addresses/:id", h.delete, mw...)
	g.PUT("/addresses/:id/default", h.setDefault, mw...)
}

func (h *AddressHandler) list(c echo.Context) error {
	list, err := h.uc.List(c.Request().Context(), auth.FromEcho(c))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, list)
}

func (h *AddressHandler) create(c echo.Context) error {
	var req addressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	a, err := h.uc.Create(c.Request().Context(), auth.FromEcho(c), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return created(c, "address created", a)
}

func (h *AddressHandler) get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	a, err := h.uc.Get(c.Request().Context(), auth.FromEcho(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, a)
}

func (h *AddressHandler) update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req addressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	a, err := h.uc.Update(c.Request().Context(), auth.FromEcho(c), id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return okWithMessage(c, "address updated", a)
}

func (h *AddressHandler) delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), auth.FromEcho(c), id); err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, "address deleted", nil)
}

func (h *AddressHandler) setDefault(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.SetDefault(c.Request().Context(), auth.FromEcho(c), id); err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, "default address updated", nil)
}
