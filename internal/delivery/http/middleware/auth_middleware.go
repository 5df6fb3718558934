package middleware

import (
	"errors"
	"strings"

	"talent-bridge/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "role"

	// QueryAccessToken carries the token on WebSocket upgrades, where browsers
	// cannot set an Authorization header.
	QueryAccessToken = "access_token"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware resolves the access token to the numeric principal and its role.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := accessToken(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
		case err != nil:
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxRoleKey, strings.ToUpper(claims.Role))
		return c.Next()
	}
}

// RequireRoles lets the request through only when the authenticated role is
// one of roles. It must run after Middleware.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToUpper(r)] = struct{}{}
	}
	return func(c fiber.Ctx) error {
		if _, ok := allowed[Role(c)]; !ok {
			return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
		}
		return c.Next()
	}
}

func UserID(c fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

func Role(c fiber.Ctx) string {
	r, _ := c.Locals(CtxRoleKey).(string)
	return r
}

func accessToken(c fiber.Ctx) (string, bool) {
	if tok, ok := bearerToken(c.Get(fiber.HeaderAuthorization)); ok {
		return tok, true
	}
	if strings.EqualFold(c.Get(fiber.HeaderUpgrade), "websocket") {
		if tok := strings.TrimSpace(c.Query(QueryAccessToken)); tok != "" {
			return tok, true
		}
	}
	return "", false
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
