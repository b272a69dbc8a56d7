package domain

import (
	"context"
	"time"
)

// AdminUsername is the single account allowed to sign in
const AdminUsername = "admin"

type User struct {
	ID           int32     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpsertPasswordHash(ctx context.Context, username, passwordHash string) (*User, error)
}
