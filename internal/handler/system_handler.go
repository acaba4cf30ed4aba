package handler

import (
	"shop/internal/config"

	"github.com/labstack/echo/v4"
)

const apiVersion = "1.0.0"

type SystemHandler struct {
	cfg config.ServerConfig
}

func NewSystemHandler(cfg config.ServerConfig) *SystemHandler {
	return &SystemHandler{cfg: cfg}
}

type serviceInfo struct {
	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

func (h *SystemHandler) Health(c echo.Context) error {
	return okWithMessage(c, "service is healthy", map[string]string{"status": "ok"})
}

// GET /api/v1/
func (h *SystemHandler) Info(c echo.Context) error {
	return okWithMessage(c, "api is available", serviceInfo{
		Service:     h.cfg.ServiceName,
		Version:     apiVersion,
		Environment: h.cfg.Environment,
	})
}
