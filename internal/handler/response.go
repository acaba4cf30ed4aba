package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shop/internal/logger"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 全レスポンス共通の形。codeはHTTPステータスと同じ値
type Envelope struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

var now = time.Now

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{
		Code:      status,
		Message:   message,
		Data:      data,
		Timestamp: now().Unix(),
	})
}

func ok(c echo.Context, data interface{}) error {
	return respond(c, http.StatusOK, "success", data)
}

func okWithMessage(c echo.Context, message string, data interface{}) error {
	return respond(c, http.StatusOK, message, data)
}

func created(c echo.Context, message string, data interface{}) error {
	return respond(c, http.StatusCreated, message, data)
}

// usecaseのHTTPErrorはそのまま、それ以外は500（中身はログにだけ出す）
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return respond(c, he.Status, he.Message, nil)
	}

	logger.FromEcho(c).Error("unhandled error", zap.Error(err))
	return respond(c, http.StatusInternalServerError, "internal server error", nil)
}

// echoのルーティング・バインド・ミドルウェアのエラーも同じ形で返す
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var ee *echo.HTTPError
	if he, ok := usecase.AsHTTPError(err); ok {
		status, message = he.Status, he.Message
	} else if errors.As(err, &ee) {
		status = ee.Code
		if s, ok := ee.Message.(string); ok && s != "" {
			message = strings.ToLower(s)
		} else {
			message = strings.ToLower(http.StatusText(ee.Code))
		}
	} else {
		logger.FromEcho(c).Error("unhandled error", zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = respond(c, status, message, nil)
}

// :id 等のパスパラメータ
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, usecase.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// 空なら0
func queryInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, usecase.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}

// 空ならnil
func queryInt64Ptr(c echo.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, usecase.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
	}
	return &v, nil
}

// Bind + Validate。失敗は400
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}
