package handler

import (
	"net/http"

	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminAuthHandler struct {
	uc *usecase.AdminAuthUsecase
}

func NewAdminAuthHandler(uc *usecase.AdminAuthUsecase) *AdminAuthHandler {
	return &AdminAuthHandler{uc: uc}
}

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AdminAuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/login", h.login)
}

func (h *AdminAuthHandler) login(c echo.Context) error {
	var req adminLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return okWithMessage(c, "login successful", out)
}

// AdminAuthを通っていれば必ず入っている
func actorAdminID(c echo.Context) (int64, error) {
	id, ok := middleware.AdminIDFromEcho(c)
	if !ok {
		return 0, usecase.NewHTTPError(http.StatusUnauthorized, "admin login required")
	}
	return id, nil
}
