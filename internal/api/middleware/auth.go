package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-EventBookingService/pkg/actor"
)

const (
	msgMissingToken = "Access token required"
	msgInvalidToken = "Invalid or expired token"
	msgAdminOnly    = "Admin access required"
)

var (
	// ErrMissingToken заголовок Authorization отсутствует или не Bearer
	ErrMissingToken = errors.New("auth: missing bearer token")
	// ErrInvalidToken подпись, срок действия или claims токена некорректны
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims содержимое access токена: sub - UUID пользователя, role - роль
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator проверяет HS256 access токены. Токены выпускает сервис пользователей
type Authenticator struct {
	secret []byte
	logger Logger
}

func NewAuthenticator(secret string, logger Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), logger: logger}
}

// Auth требует валидный токен, иначе 401
func (a *Authenticator) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.authenticate(r)
		if err != nil {
			a.logger.Warn("%s %s - Unauthorized: %v", r.Method, r.URL.Path, err)
			if errors.Is(err, ErrMissingToken) {
				handlers.RespondUnauthorized(w, msgMissingToken)
			} else {
				handlers.RespondUnauthorized(w, msgInvalidToken)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// OptionalAuth пропускает анонимные запросы, но отклоняет присланный невалидный токен
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.authenticate(r)
		switch {
		case errors.Is(err, ErrMissingToken):
			next.ServeHTTP(w, r)
		case err != nil:
			a.logger.Warn("%s %s - Invalid optional token: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
		default:
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		}
	})
}

// RequireAdmin пропускает только администраторов. Ставится после Auth
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserID(r.Context()); !ok {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}
		if !IsAdmin(r.Context()) {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID UUID аутентифицированного пользователя из контекста
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	a := actor.FromContext(ctx)
	if a.UserID == nil {
		return uuid.Nil, false
	}
	return *a.UserID, true
}

// GetOptionalUserID как GetUserID, но nil для анонимного запроса
func GetOptionalUserID(ctx context.Context) *uuid.UUID {
	if id, ok := GetUserID(ctx); ok {
		return &id
	}
	return nil
}

// IsAdmin true, если токен выдан администратору
func IsAdmin(ctx context.Context) bool {
	return actor.FromContext(ctx).IsAdmin()
}

func (a *Authenticator) authenticate(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, ErrMissingToken
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if raw == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("%w: subject is not a UUID", ErrInvalidToken)
	}
	return claims, nil
}

// withClaims дополняет actor из RequestMeta данными токена
func withClaims(ctx context.Context, claims *Claims) context.Context {
	a := actor.FromContext(ctx)
	userID := uuid.MustParse(claims.Subject)
	a.UserID = &userID
	a.Role = claims.Role
	return actor.WithContext(ctx, a)
}
