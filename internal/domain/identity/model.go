package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// User is a staff account. Accounts are provisioned at seed time; there is
// no self-registration path.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Mobile       string `db:"mobile" json:"mobile"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
}

// UserSummary is the projection used to populate assignment pickers.
type UserSummary struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Mobile string `db:"mobile" json:"mobile"`
}

// HashSecret computes the stored credential hash for a plaintext secret.
// The plaintext itself is never persisted or logged.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
