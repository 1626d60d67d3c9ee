package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para UserProfile (DIP).
type UserRepository interface {
	Create(ctx context.Context, u *entity.UserProfile) error
	GetByID(ctx context.Context, id string) (*entity.UserProfile, error)
	// GetByEmail devuelve nil, nil si el perfil no existe: el resolutor de
	// roles trata la ausencia como rol por defecto, no como error.
	GetByEmail(ctx context.Context, email string) (*entity.UserProfile, error)
	Update(ctx context.Context, u *entity.UserProfile) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
