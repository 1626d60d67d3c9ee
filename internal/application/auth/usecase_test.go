package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/cotizador-pro/internal/application/auth"
	"github.com/tu-usuario/cotizador-pro/internal/application/dto"
	"github.com/tu-usuario/cotizador-pro/internal/domain"
	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
	pkgjwt "github.com/tu-usuario/cotizador-pro/pkg/jwt"
	"github.com/tu-usuario/cotizador-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret      = "test-secret-key-for-unit-tests"
	testIssuer      = "cotizador-pro-test"
	testCompanyCode = "ACME-2024"
)

// fakeUserRepo repositorio de usuarios en memoria.
type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*entity.UserProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*entity.UserProfile)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			u.LastLogin = at
			return nil
		}
	}
	return nil
}

func newTestAuth(t *testing.T) (*auth.AuthUseCase, *fakeUserRepo, *auth.Notifier) {
	t.Helper()
	repo := newFakeUserRepo()
	notifier := auth.NewNotifier()
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     testIssuer,
	}, testCompanyCode, notifier, logger.Nop())
	return uc, repo, notifier
}

func registrar(t *testing.T, uc *auth.AuthUseCase, email, role string) *dto.UserResponse {
	t.Helper()
	out, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email:       email,
		Password:    "contraseña-larga-1",
		Role:        role,
		CompanyCode: testCompanyCode,
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro con código de empresa
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_SinCodigo_Rechazado(t *testing.T) {
	uc, _, _ := newTestAuth(t)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email:    "nuevo@acme.co",
		Password: "contraseña-larga-1",
	})
	assert.ErrorIs(t, err, domain.ErrCodigoRequerido,
		"sin código de empresa no hay registro")
}

func TestRegister_CodigoIncorrecto_Rechazado(t *testing.T) {
	uc, _, _ := newTestAuth(t)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email:       "nuevo@acme.co",
		Password:    "contraseña-larga-1",
		CompanyCode: "OTRO-CODIGO",
	})
	assert.ErrorIs(t, err, domain.ErrCodigoRequerido)
}

func TestRegister_CodigoValido_VendedorPorDefecto(t *testing.T) {
	uc, _, _ := newTestAuth(t)

	out := registrar(t, uc, "nuevo@acme.co", "")
	assert.Equal(t, entity.RoleVendedor, out.Role,
		"sin rol explícito el registro asigna el de menor privilegio")
	assert.Equal(t, []string{entity.PermCrearCotizacion}, out.Permissions)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _, _ := newTestAuth(t)

	registrar(t, uc, "dup@acme.co", "")
	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email:       "dup@acme.co",
		Password:    "contraseña-larga-1",
		CompanyCode: testCompanyCode,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_OK_TokenIncluyeRol(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	registrar(t, uc, "aprobador@acme.co", entity.RoleAprobador)

	out, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "aprobador@acme.co",
		Password: "contraseña-larga-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	_, email, role, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "aprobador@acme.co", email)
	assert.Equal(t, entity.RoleAprobador, role,
		"el token debe llevar el rol para que el middleware decida sin DB")
	assert.Contains(t, out.User.Permissions, entity.PermAprobar)
}

func TestLogin_PasswordIncorrecta_Unauthorized(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	registrar(t, uc, "user@acme.co", "")

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "user@acme.co",
		Password: "otra-contraseña",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_EmailInexistente_MismoCodigoQuePasswordMala(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	registrar(t, uc, "user@acme.co", "")

	_, errInexistente := uc.Login(context.Background(), dto.LoginRequest{
		Email: "nadie@acme.co", Password: "x",
	})
	_, errPassword := uc.Login(context.Background(), dto.LoginRequest{
		Email: "user@acme.co", Password: "x",
	})

	// Ambos errores clasifican al mismo código: no se filtra qué emails existen.
	assert.Equal(t, auth.ClassifyError(errInexistente), auth.ClassifyError(errPassword))
	assert.Equal(t, auth.CodeWrongCredentials, auth.ClassifyError(errPassword))
}

func TestLogin_CuentaInactiva_Forbidden(t *testing.T) {
	uc, repo, _ := newTestAuth(t)
	registrar(t, uc, "baja@acme.co", "")

	u, err := repo.GetByEmail(context.Background(), "baja@acme.co")
	require.NoError(t, err)
	u.Status = "disabled"
	require.NoError(t, repo.Update(context.Background(), u))

	_, err = uc.Login(context.Background(), dto.LoginRequest{
		Email:    "baja@acme.co",
		Password: "contraseña-larga-1",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, auth.CodeAccountDisabled, auth.ClassifyError(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución de rol y permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_SinPerfil_VendedorPorDefecto(t *testing.T) {
	uc, _, _ := newTestAuth(t)

	role, perms, err := uc.Resolve(context.Background(), "fantasma@acme.co")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, role,
		"identidad autenticada sin perfil resuelve al rol de menor privilegio")
	assert.Equal(t, []string{entity.PermCrearCotizacion}, perms)
}

func TestResolve_ConPerfil(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	registrar(t, uc, "jefe@acme.co", entity.RoleAdmin)

	role, perms, err := uc.Resolve(context.Background(), "jefe@acme.co")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, role)
	assert.ElementsMatch(t, []string{entity.PermCrearCotizacion, entity.PermAprobar, entity.PermAdmin}, perms)
}

// ──────────────────────────────────────────────────────────────────────────────
// Restablecimiento de contraseña
// ──────────────────────────────────────────────────────────────────────────────

// La respuesta es idéntica exista o no el perfil.
func TestResetPassword_NoFiltraExistencia(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	registrar(t, uc, "real@acme.co", "")

	assert.NoError(t, uc.ResetPassword(context.Background(), "real@acme.co"))
	assert.NoError(t, uc.ResetPassword(context.Background(), "inventado@acme.co"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Mensajes de usuario
// ──────────────────────────────────────────────────────────────────────────────

// El mapeo código → mensaje es total: todo código conocido tiene mensaje y
// cualquier código desconocido cae en el genérico, nunca en vacío.
func TestUserMessage_MapeoTotal(t *testing.T) {
	conocidos := []string{
		auth.CodeWrongCredentials,
		auth.CodeAccountDisabled,
		auth.CodeEmailInUse,
		auth.CodeWeakPassword,
		auth.CodeTooManyAttempts,
		auth.CodeNetworkFailure,
		auth.CodeCompanyCode,
		auth.CodeUnknown,
	}
	for _, code := range conocidos {
		assert.NotEmpty(t, auth.UserMessage(code), "código %s sin mensaje", code)
	}
	assert.Equal(t, auth.UserMessage(auth.CodeUnknown), auth.UserMessage("CODIGO_QUE_NO_EXISTE"),
		"un código desconocido cae en el mensaje genérico")
}

func TestClassifyError_ErroresDeDominio(t *testing.T) {
	casos := map[error]string{
		domain.ErrUserNotFound:       auth.CodeWrongCredentials,
		domain.ErrUnauthorized:       auth.CodeWrongCredentials,
		domain.ErrForbidden:          auth.CodeAccountDisabled,
		domain.ErrEmailAlreadyExists: auth.CodeEmailInUse,
		domain.ErrCodigoRequerido:    auth.CodeCompanyCode,
		domain.ErrSyncFailure:        auth.CodeNetworkFailure,
	}
	for err, want := range casos {
		assert.Equal(t, want, auth.ClassifyError(err), "error %v", err)
	}
	assert.Equal(t, auth.CodeUnknown, auth.ClassifyError(assert.AnError))
}
