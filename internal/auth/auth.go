package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/callowayfam/reunion-api/internal/config"
	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
)

const TokenDuration = 24 * time.Hour

const cookieName = "auth_token"

// AuthHandler issues and verifies admin session tokens. The shared admin
// password is exchanged for a server-verified JWT; nothing about the admin
// session is trusted client-side.
type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// AuthInput carries the Cookie header for protected huma operations.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Admin session cookie"`
}

type LoginRequest struct {
	Body struct {
		Password string `json:"password" doc:"Shared admin password" required:"true"`
	}
}

type LoginResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Message string `json:"message"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	if h.cfg.AdminPassword == "" {
		return nil, huma.Error403Forbidden("Admin access is not configured")
	}

	if subtle.ConstantTimeCompare([]byte(input.Body.Password), []byte(h.cfg.AdminPassword)) != 1 {
		return nil, huma.Error401Unauthorized("Invalid password")
	}

	token, err := h.GenerateToken()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &LoginResponse{
		SetCookie: http.Cookie{
			Name:     cookieName,
			Value:    token,
			Expires:  time.Now().Add(TokenDuration),
			HttpOnly: true,
			Path:     "/",
		},
	}
	res.Body.Message = "Logged in"
	return res, nil
}

func (h *AuthHandler) GenerateToken() (string, error) {
	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// Authorize validates the admin session token from a raw Cookie header.
// Returns a huma 401 error suitable for returning directly from handlers.
func (h *AuthHandler) Authorize(ctx context.Context, cookieHeader string) error {
	tokenString := ""
	if cookies, err := http.ParseCookie(cookieHeader); err == nil {
		for _, c := range cookies {
			if c.Name == cookieName {
				tokenString = c.Value
				break
			}
		}
	}
	if tokenString == "" {
		return huma.Error401Unauthorized("Unauthorized: no token found")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return huma.Error401Unauthorized("Unauthorized: invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return huma.Error401Unauthorized("Unauthorized: invalid token claims")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return huma.Error401Unauthorized("Unauthorized: invalid token claims")
	}

	return nil
}
