package repository

import (
	"context"

	"github.com/entregago/entrega/internal/domain/model"
)

// UserRepository describes persistence operations with customer accounts.
type UserRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}
