package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-lists/internal/models"
	"github.com/adanyl0v/go-todo-lists/internal/services"
)

const (
	sessionCookie     = "session"
	stateCookie       = "state"
	stateCookieMaxAge = 30 * 24 * 60 * 60
	csrfFormField     = "csrf_token"

	principalCtxKey = "principal"
	sessionIDCtxKey = "session_id"
	csrfReadyCtxKey = "csrf_ready"
)

// HandleSessionMiddleware resolves the session cookie to the current
// principal. Requests without a live session continue as anonymous.
func (h *handlerImpl) HandleSessionMiddleware(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.Set(principalCtxKey, models.Anonymous)

	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		c.Next()
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		h.abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	user, session, err := h.auth.Authenticate(c, services.AuthenticateParams{
		Token:       token,
		Fingerprint: fingerprint,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidToken),
			errors.Is(err, services.ErrSessionNotFound),
			errors.Is(err, services.ErrSessionExpired),
			errors.Is(err, services.ErrUserNotFound):
			h.logger.Debug().
				Err(err).
				Msg("dropping stale session cookie")
			clearCookie(c, sessionCookie)
			c.Next()
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to authenticate session")
			h.abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.Set(principalCtxKey, user)
	c.Set(sessionIDCtxKey, session.ID)
	c.Next()
}

// HandleRequireAuthMiddleware redirects anonymous visitors to the login page.
func (h *handlerImpl) HandleRequireAuthMiddleware(c *gin.Context) {
	if !currentPrincipal(c).IsAuthenticated() {
		h.logger.Debug().
			Str("path", c.Request.URL.Path).
			Msg("anonymous request to a protected page")
		h.redirect(c, "/login")
		c.Abort()
		return
	}
	c.Next()
}

// HandleStateMiddleware loads the signed cookie that carries flashes
// and the CSRF salt between requests.
func (h *handlerImpl) HandleStateMiddleware(c *gin.Context) {
	h.state(c)
}

// HandleCSRFMiddleware checks that every POST echoes the CSRF token
// in the csrf_token form field.
func (h *handlerImpl) HandleCSRFMiddleware(c *gin.Context) {
	c.Set(csrfReadyCtxKey, true)
	h.csrf(c)
}

func (h *handlerImpl) handleCSRFError(c *gin.Context) {
	h.logger.Warn().
		Err(errCSRFTokenInvalid).
		Str("path", c.Request.URL.Path).
		Msg("csrf token mismatch")
	h.abort(c, newBadRequestError("The CSRF token is missing or invalid."))
}

func currentPrincipal(c *gin.Context) models.Principal {
	value, exists := c.Get(principalCtxKey)
	if !exists {
		return models.Anonymous
	}
	principal, ok := value.(models.Principal)
	if !ok {
		return models.Anonymous
	}
	return principal
}

func (h *handlerImpl) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie(sessionCookie, token, maxAge, "/", "", h.options.SecureCookie, true)
}

func generateFingerprint(c *gin.Context) (string, error) {
	fingerprintBytes, err := json.Marshal(map[string]string{
		"client_ip":  c.ClientIP(),
		"user_agent": c.Request.UserAgent(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal json: %w", err)
	}
	return string(fingerprintBytes), nil
}
