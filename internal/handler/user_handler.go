package handler

import (
	"shop/internal/auth"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /users のHTTP
type UserHandler struct {
	uc *usecase.UserUsecase
}

// DI
func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Nickname string `json:"nickname" validate:"max=50"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Nickname  string `json:"nickname" validate:"max=50"`
	AvatarURL string `json:"avatar_url" validate:"max=500"`
}

// mwはprofileだけに掛ける
func (h *UserHandler) RegisterRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.POST("/users/register", h.register)
	g.POST("/users/login", h.login)
	g.GET("/users/profile", h.profile, mw...)
	g.PUT("/users/profile", h.updateProfile, mw...)
}

func (h *UserHandler) register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		return writeError(c, err)
	}
	return created(c, "registered successfully", out)
}

func (h *UserHandler) login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return okWithMessage(c, "login successful", out)
}

func (h *UserHandler) profile(c echo.Context) error {
	u, err := h.uc.Profile(c.Request().Context(), auth.FromEcho(c))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, u)
}

func (h *UserHandler) updateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	u, err := h.uc.UpdateProfile(c.Request().Context(), auth.FromEcho(c), usecase.UpdateProfileInput{
		Nickname:  req.Nickname,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return okWithMessage(c, "profile updated", u)
}
