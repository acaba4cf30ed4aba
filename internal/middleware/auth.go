package middleware

import (
	"errors"
	"net/http"
	"strings"

	"shop/internal/auth"
	"shop/internal/logger"
	"shop/internal/metrics"
	"shop/internal/repository"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const CtxAdminIDKey = "admin_id" // int64

// JWTの検証だけを約束（auth.TokenManager）
type TokenVerifier interface {
	Verify(raw string) (auth.Claims, error)
}

// Bearerトークンを解決してauth.Contextを入れる。
// 無い・不正・期限切れ・無効ユーザーは全てAnonymous（ここでは401にしない）
func OptionalAuth(tokens TokenVerifier, users repository.UserRepository, m *metrics.ShopMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac, result := resolveUser(c, tokens, users)
			m.AuthResolved(result)
			auth.SetEcho(c, ac)
			return next(c)
		}
	}
}

func resolveUser(c echo.Context, tokens TokenVerifier, users repository.UserRepository) (auth.Context, string) {
	raw, ok := bearerToken(c)
	if !ok {
		return auth.Anonymous(), "anonymous"
	}

	claims, err := tokens.Verify(raw)
	if err != nil || claims.Role != auth.RoleUser {
		return auth.Anonymous(), "invalid"
	}
	userID, err := claims.SubjectID()
	if err != nil {
		return auth.Anonymous(), "invalid"
	}

	//DBから最新のuserを取得する（削除・停止済みなら匿名）
	ctx := c.Request().Context()
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.FromContext(ctx).Warn("resolve user failed", zap.Int64("user_id", userID), zap.Error(err))
		}
		return auth.Anonymous(), "invalid"
	}
	if user == nil || !user.IsActive() {
		return auth.Anonymous(), "invalid"
	}
	return auth.AuthenticatedAs(user.ID), "authenticated"
}

// OptionalAuthの後ろに置く。Anonymousなら401
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !auth.FromEcho(c).IsAuthenticated() {
				return usecase.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			return next(c)
		}
	}
}

// 管理者トークン（role=admin）と有効な管理者を要求する
func AdminAuth(tokens TokenVerifier, admins repository.AdminRepository) echo.MiddlewareFunc {
	unauthorized := usecase.NewHTTPError(http.StatusUnauthorized, "admin login required")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return unauthorized
			}
			claims, err := tokens.Verify(raw)
			if err != nil || claims.Role != auth.RoleAdmin {
				return unauthorized
			}
			adminID, err := claims.SubjectID()
			if err != nil {
				return unauthorized
			}

			admin, err := admins.FindByID(c.Request().Context(), adminID)
			if err != nil || admin == nil || !admin.IsActive() {
				return unauthorized
			}

			c.Set(CtxAdminIDKey, admin.ID)
			return next(c)
		}
	}
}

// AdminAuthが入れた管理者ID
func AdminIDFromEcho(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxAdminIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// Authorization: Bearer <token>
func bearerToken(c echo.Context) (string, bool) {
	authz := c.Request().Header.Get(echo.HeaderAuthorization)
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return "", false
	}
	return raw, true
}
