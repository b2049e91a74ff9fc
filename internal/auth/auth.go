package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
)

const TokenDuration = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type Verifier interface {
	Verify(login, password string) bool
}

type AuthHandler struct {
	secret []byte
	admin  Verifier
	now    func() time.Time
}

func NewAuthHandler(secret string, admin Verifier) *AuthHandler {
	return &AuthHandler{secret: []byte(secret), admin: admin, now: time.Now}
}

type LoginInput struct {
	Body struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
}

type LoginOutput struct {
	Body struct {
		Token string `json:"token"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	if !h.admin.Verify(input.Body.Login, input.Body.Password) {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}
	token, err := h.GenerateToken(input.Body.Login)
	if err != nil {
		return nil, huma.Error500InternalServerError("Internal server error")
	}
	resp := &LoginOutput{}
	resp.Body.Token = token
	return resp, nil
}

func (h *AuthHandler) GenerateToken(login string) (string, error) {
	claims := jwt.MapClaims{
		"login": login,
		"exp":   h.now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.secret)
}

// ParseToken validates a signed token and returns its login and expiry.
func (h *AuthHandler) ParseToken(tokenString string) (string, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return h.secret, nil
	}, jwt.WithTimeFunc(h.now))
	if err != nil || !token.Valid {
		return "", time.Time{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}, ErrInvalidToken
	}
	login, ok := claims["login"].(string)
	if !ok || login == "" {
		return "", time.Time{}, ErrInvalidToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", time.Time{}, ErrInvalidToken
	}
	return login, exp.Time, nil
}

// Authorize checks an Authorization header value of the form "Bearer <token>".
func (h *AuthHandler) Authorize(_ context.Context, authorization string) (string, error) {
	tokenString, ok := bearerToken(authorization)
	if !ok {
		return "", huma.Error401Unauthorized("Unauthorized")
	}
	login, _, err := h.ParseToken(tokenString)
	if err != nil {
		return "", huma.Error401Unauthorized("Unauthorized")
	}
	return login, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
