package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Roles a user record can carry. Role checks always compare against the
// freshly loaded record, never against token claims.
const (
	RoleCustomer = "customer"
	RolePremium  = "premium"
	RoleAdmin    = "admin"
)

// User is a storefront account. Registration and login live elsewhere; this
// service only reads users for access checks.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Order is a placed storefront order. Consumed read-only by the dashboard
// analytics aggregation.
type Order struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"userId" db:"user_id"`
	Total     decimal.Decimal `json:"total" db:"total"`
	Status    string          `json:"status" db:"status"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}
