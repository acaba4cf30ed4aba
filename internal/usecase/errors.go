package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"shop/internal/logger"

	"go.uber.org/zap"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 想定外のエラー。中身はログにだけ出してクライアントには返さない
func internalError(ctx context.Context, op string, err error) error {
	logger.FromContext(ctx).Error(op, zap.Error(err))
	return NewHTTPError(http.StatusInternalServerError, "internal server error")
}

// Tx内で返したHTTPErrorはそのまま、それ以外は500
func txError(ctx context.Context, op string, err error) error {
	if he, ok := AsHTTPError(err); ok {
		return he
	}
	return internalError(ctx, op, err)
}

var errLoginRequired = NewHTTPError(http.StatusUnauthorized, "login required")
