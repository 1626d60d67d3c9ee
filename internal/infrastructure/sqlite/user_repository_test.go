package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/cotizador-pro/internal/domain"
	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
	"github.com/tu-usuario/cotizador-pro/internal/infrastructure/sqlite"
)

func nuevoPerfil(email, role string) *entity.UserProfile {
	now := time.Now().UTC().Truncate(time.Second)
	return &entity.UserProfile{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         "Usuario de Prueba",
		PasswordHash: "$2a$10$hashficticio",
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepo_CreateYGetByEmail(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	u := nuevoPerfil("ana@acme.co", entity.RoleAprobador)
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByEmail(ctx, "ana@acme.co")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, entity.RoleAprobador, got.Role)
	assert.True(t, got.LastLogin.IsZero(), "sin login previo la marca queda en cero")
}

func TestUserRepo_GetByEmail_Ausente_NilNil(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewUserRepository(db)

	got, err := repo.GetByEmail(context.Background(), "nadie@acme.co")
	require.NoError(t, err)
	assert.Nil(t, got, "la ausencia de perfil no es un error")
}

func TestUserRepo_EmailDuplicado(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, nuevoPerfil("dup@acme.co", entity.RoleVendedor)))
	err := repo.Create(ctx, nuevoPerfil("dup@acme.co", entity.RoleVendedor))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserRepo_UpdateLastLogin(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	u := nuevoPerfil("login@acme.co", entity.RoleVendedor)
	require.NoError(t, repo.Create(ctx, u))

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastLogin(ctx, u.ID, at))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.LastLogin.IsZero())
}

func TestUserRepo_Update(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	u := nuevoPerfil("rol@acme.co", entity.RoleVendedor)
	require.NoError(t, repo.Create(ctx, u))

	u.Role = entity.RoleAprobador
	u.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByEmail(ctx, "rol@acme.co")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAprobador, got.Role)
}
