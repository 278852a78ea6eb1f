package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Роли операторов консоли флота.
const (
	RoleOperator = "operator" // дежурный: дашборды и логи
	RoleAnalyst  = "analyst"  // аналитик: плюс чат-агент
	RoleAdmin    = "admin"    // администратор
)

// CustomClaims — полезная нагрузка RS256-токена консоли.
type CustomClaims struct {
	UserID string          `json:"user_id"`
	Scopes map[string]bool `json:"scopes"` // "fleet.read": true или "admin": true
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // Всегда "Bearer"
	ExpiresIn   int64  `json:"expires_in"` // Секунды до истечения
}

// User — учетная запись оператора из таблицы users.
type User struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"` // Никогда не отправляем на фронт
	Role         string          `json:"role"`
	Scopes       map[string]bool `json:"scopes"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
