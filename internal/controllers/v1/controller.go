// Package v1 serves the fincontrol HTTP API.
package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/fincontrol/backend/internal/httperror"
	"github.com/fincontrol/backend/internal/ledger"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"
	tokenKey    = "token"
)

// Controller holds the dependencies of all v1 handlers.
type Controller struct {
	Gate    *session.Gate
	Ledgers *ledger.Registry
}

// RegisterRoutes registers all v1 routes with the RouterGroup that is passed.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", Options)
		r.GET("", Get)
	}

	co.RegisterAuthRoutes(r.Group("/auth"))

	authenticated := r.Group("", co.RequireSession())
	co.RegisterTransactionRoutes(authenticated.Group("/transactions"))
	co.RegisterCategoryRoutes(authenticated.Group("/categories"))
	co.RegisterSettingsRoutes(authenticated.Group("/settings"))
	co.RegisterMonthRoutes(authenticated.Group("/months"))
	co.RegisterAssistantRoutes(authenticated.Group("/assistant"))
}

// sessionToken returns the raw session token from the cookie or the
// Authorization header. The bool reports whether it came from the cookie.
func sessionToken(c *gin.Context) (string, bool) {
	if token, err := c.Cookie(session.CookieName); err == nil && token != "" {
		return token, true
	}

	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token), false
	}

	return "", false
}

// setSessionCookie writes the session cookie. A zero expiry clears it.
func setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := -1
	if !expiresAt.IsZero() {
		maxAge = int(time.Until(expiresAt).Seconds())
	}

	secure := strings.HasPrefix(c.GetString(string(models.DBContextURL)), "https://")

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, maxAge, "/", "", secure, true)
}

// RequireSession aborts with 401 unless the request carries a valid session.
func (co Controller) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, fromCookie := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperror.New(session.ErrUnauthorized))
			return
		}

		identity, expiresAt, err := co.Gate.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(httperror.Status(err), httperror.New(err))
			return
		}

		if fromCookie {
			setSessionCookie(c, token, expiresAt)
		}

		c.Set(identityKey, identity)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// Authenticated reports whether the request passed RequireSession.
func Authenticated(c *gin.Context) bool {
	_, ok := c.Get(identityKey)
	return ok
}

func identity(c *gin.Context) session.Identity {
	return c.MustGet(identityKey).(session.Identity)
}

// ledger returns the loaded ledger of the signed-in owner.
func (co Controller) ledger(c *gin.Context) (*ledger.Ledger, error) {
	return co.Ledgers.Open(c.Request.Context(), identity(c).UserID)
}
