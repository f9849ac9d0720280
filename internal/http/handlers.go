package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/task-manager/internal/security"
	"github.com/tazhibayda/task-manager/internal/service"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Accounts       *service.Accounts
	Tokens         *service.Tokens
	Tasks          *service.Tasks
	Store          Pinger
	Keys           *security.KeyManager // nil when tokens are HMAC-signed
	AvatarMaxBytes int64
}

// Healthz godoc
// @Summary Liveness and store reachability
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// JWKS godoc
// @Summary Public signing keys
// @Tags auth
// @Produce json
// @Success 200 {object} security.JWKS
// @Router /.well-known/jwks.json [get]
func (h *Handler) JWKS(c *gin.Context) {
	if h.Keys == nil {
		c.JSON(http.StatusOK, security.JWKS{Keys: []security.JWK{}})
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, h.Keys.JWKS())
}
