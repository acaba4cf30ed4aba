package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shop/internal/config"
	"shop/internal/handler"
	"shop/internal/logger"
	"shop/internal/metrics"
	"shop/internal/middleware"
	"shop/internal/repository"
	"shop/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// ルーティングに必要なもの一式
type Deps struct {
	Config   config.Config
	Log      *zap.Logger
	Registry *prometheus.Registry
	Shop     *metrics.ShopMetrics

	Tokens middleware.TokenVerifier
	Users  repository.UserRepository
	Admins repository.AdminRepository

	Handlers Handlers
}

type Handlers struct {
	System       *handler.SystemHandler
	User         *handler.UserHandler
	Address      *handler.AddressHandler
	Catalog      *handler.CatalogHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	AdminAuth    *handler.AdminAuthHandler
	AdminCatalog *handler.AdminCatalogHandler
	AdminOrder   *handler.AdminOrderHandler
}

// New はミドルウェアとルートを設定したechoを返す
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Validator = validator.New()

	httpMetrics := metrics.NewHTTPMetrics(d.Registry, d.Config.Server.ServiceName)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware(d.Log))
	e.Use(httpMetrics.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.Config.CORSAllowedOrigins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType,
			echo.HeaderAccept, echo.HeaderAuthorization,
		},
	}))
	// 画像アップロード分＋余裕
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dM", d.Config.Media.MaxImageSizeMB+1)))

	registerRoutes(e, d)
	return e
}

// Run はctxが終わるまでサーバを動かし、その後graceful shutdownする
func Run(ctx context.Context, e *echo.Echo, addr string, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server started", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func mediaPrefix(url string) string {
	p := "/" + strings.Trim(url, "/")
	if p == "/" {
		return "/media"
	}
	return p
}
