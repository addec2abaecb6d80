package http

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/authz"
	"github.com/jhoicas/suministros-api/pkg/jwt"
)

// Locals keys para la identidad de la sesión en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

// tokenFrom busca el token en Authorization, luego en la cookie y por último en ?token=
// (los navegadores no envían cabeceras en el upgrade de websocket).
// bad=true cuando la cabecera Authorization existe pero no es Bearer.
func tokenFrom(c *fiber.Ctx, cookieName string) (token string, bad bool) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", true
		}
		return strings.TrimSpace(parts[1]), false
	}
	if cookieName != "" {
		if v := c.Cookies(cookieName); v != "" {
			return v, false
		}
	}
	return c.Query("token"), false
}

// SessionSource devuelve el estado actual del usuario del token (auth.AuthUseCase.Me).
// domain.ErrUnauthorized indica que la cuenta ya no existe.
type SessionSource interface {
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
}

// AuthOption configura AuthMiddleware.
type AuthOption func(*authOptions)

type authOptions struct {
	source SessionSource
}

// WithSessionSource recarga rol y username en cada petición: un cambio de rol o la eliminación
// de la cuenta aplican de inmediato y no al expirar el token.
func WithSessionSource(src SessionSource) AuthOption {
	return func(o *authOptions) { o.source = src }
}

// AuthMiddleware valida el JWT y carga user_id, username y role en c.Locals.
func AuthMiddleware(jwtSecret, cookieName string, opts ...AuthOption) fiber.Handler {
	var o authOptions
	for _, opt := range opts {
		opt(&o)
	}
	return func(c *fiber.Ctx) error {
		tokenString, bad := tokenFrom(c, cookieName)
		if bad {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "autenticación requerida"})
		}
		session, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if o.source != nil {
			user, err := o.source.Me(c.Context(), session.UserID)
			switch {
			case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrNotFound):
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_REVOKED", Message: "la cuenta ya no existe"})
			case err != nil:
				return fmt.Errorf("recargar sesión: %w", err)
			}
			session.Username = user.Username
			session.Role = user.Role
		}
		setSession(c, session)
		return c.Next()
	}
}

// OptionalAuth carga la sesión si hay un token válido; nunca rechaza.
func OptionalAuth(jwtSecret, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, bad := tokenFrom(c, cookieName); !bad && tokenString != "" {
			if session, err := jwt.Parse(jwtSecret, tokenString); err == nil {
				setSession(c, session)
			}
		}
		return c.Next()
	}
}

func setSession(c *fiber.Ctx, s *jwt.Session) {
	c.Locals(LocalUserID, s.UserID)
	c.Locals(LocalUsername, s.Username)
	c.Locals(LocalRole, s.Role)
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetUsername devuelve el username de la sesión.
func GetUsername(c *fiber.Ctx) string { return localString(c, LocalUsername) }

// GetRole devuelve el rol de la sesión.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// Authorize exige la capacidad según la política. Usar después de AuthMiddleware.
func Authorize(policy authz.Policy, capability authz.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return missingRole(c)
		}
		if !policy.Allows(role, capability) {
			return forbidden(c)
		}
		return c.Next()
	}
}

func missingRole(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permisos insuficientes"})
}
