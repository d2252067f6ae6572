package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	status, code := "available", http.StatusOK
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c, healthPingTimeout)
		defer cancel()

		err := h.pinger.Ping(ctx)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("health check failed to ping storage")
			status, code = "unavailable", http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":      status,
		"environment": h.options.Env,
		"version":     h.options.Version,
	})
}
