package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/config"
)

// NewApp builds the fiber app. X-Forwarded-For is read only from the configured
// trusted proxies; every other peer is identified by its socket address.
func NewApp(cfg config.AppConfig) *fiber.App {
	fiberCfg := fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  cfg.RequestTimeout(),
		WriteTimeout: cfg.RequestTimeout(),
	}
	if len(cfg.TrustedProxies) > 0 {
		fiberCfg.ProxyHeader = fiber.HeaderXForwardedFor
		fiberCfg.EnableIPValidation = true
		fiberCfg.EnableTrustedProxyCheck = true
		fiberCfg.TrustedProxies = cfg.TrustedProxies
	}
	return fiber.New(fiberCfg)
}
