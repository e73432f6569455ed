package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	errMissingToken  = errors.New("Missing token")
	errInvalidToken  = errors.New("Invalid token")
	errInvalidClaims = errors.New("Invalid claims")
)

// ParseUserID validates an HS256 token and returns its user_id claim.
func ParseUserID(secret, tokenStr string) (uuid.UUID, error) {
	if tokenStr == "" {
		return uuid.Nil, errMissingToken
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errInvalidClaims
	}
	raw, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errInvalidClaims
	}
	return userId, nil
}

// BearerToken strips the "Bearer " prefix from an Authorization header.
func BearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// JwtMiddleware stores the caller's user id under Locals("user_id") as a
// string.
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, err := ParseUserID(secret, BearerToken(ctx.Get("Authorization")))
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, err.Error()))
		}

		ctx.Locals("user_id", userId.String())
		return ctx.Next()
	}
}

// UserID reads the id JwtMiddleware stored.
func UserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	return userId, nil
}
