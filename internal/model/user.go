package model

// Role is the closed set of authorization roles.  Exactly two values
// exist; every authorization decision goes through RequireRole with
// these constants rather than ad hoc string comparisons.
type Role string

const (
	// RoleAdmin can manage users, films, categories, shows and tickets.
	RoleAdmin Role = "a"
	// RoleUser is an ordinary moviegoer who can book tickets.
	RoleUser Role = "u"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

// User mirrors the `user` table.  PasswordHash is a bcrypt hash; the
// plain password never touches the store.  Inactive users cannot log
// in or book.
type User struct {
	ID           uint64 `json:"id"`       // user.id
	Username     string `json:"username"` // user.username
	PasswordHash string `json:"-"`        // user.password_hash
	Role         Role   `json:"role"`     // user.role
	IsActive     bool   `json:"isActive"` // user.is_active
}

// RefreshToken models a row in the `refresh_token` table.  Only the
// SHA-256 hash of the token is stored; the raw value goes back to the
// client once and is never persisted.
type RefreshToken struct {
	ID        uint64 // refresh_token.id
	UserID    uint64 // refresh_token.user_id
	TokenHash string // refresh_token.token_hash
}
