package v1

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
)

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
	ExpiresIn   int    `json:"expires_in"`
}

// IssueToken exchanges credentials for a bearer token.
// POST /v1/auth/token
func (h *Handler) IssueToken(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, domain.E(domain.KindInvalidArgument, "invalid request body"))
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.config.AuthUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.config.AuthPassword)) == 1
	if !userOK || !passOK {
		return c.JSON(http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
	}

	token, expiresAt, err := h.issuer.Issue(req.Username)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt.Unix(),
		ExpiresIn:   int(time.Until(expiresAt).Seconds()),
	})
}

// bearerAuth validates the Authorization header and stores the subject in
// the request context. Any credential problem is a 401 before pipeline work.
func (h *Handler) bearerAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return writeError(c, domain.E(domain.KindAuthExpired, "missing bearer token"))
		}
		claims, err := h.issuer.Parse(token)
		if err != nil {
			return writeError(c, err)
		}
		c.Set("user_id", claims.Subject)
		return next(c)
	}
}

// rateLimit enforces the per-client request budget.
func (h *Handler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.limiter.Allow(c.RealIP()) {
			c.Response().Header().Set("Retry-After", "60")
			return writeError(c, domain.E(domain.KindRateLimited, "rate limit exceeded, retry later"))
		}
		return next(c)
	}
}
