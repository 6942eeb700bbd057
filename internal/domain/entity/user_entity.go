package entity

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// User is the aggregate root for the user domain.
// PasswordHash holds a bcrypt hash, never the plaintext.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	AboutMe      string
	AvatarURL    string
	LastSeen     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Avatar returns the uploaded avatar when present, otherwise a gravatar identicon of the given size.
func (u *User) Avatar(size int) string {
	if u.AvatarURL != "" {
		return u.AvatarURL
	}
	sum := md5.Sum([]byte(strings.ToLower(u.Email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon&s=%d", hex.EncodeToString(sum[:]), size)
}
