package models

import (
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Validate() error {
	if len(strings.TrimSpace(u.Username)) < 3 {
		return fmt.Errorf("%w: username too short", ErrInvalidArgument)
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("%w: invalid email", ErrInvalidArgument)
	}
	if u.Balance < 0 {
		return fmt.Errorf("%w: balance must be >= 0", ErrInvalidArgument)
	}
	return nil
}
