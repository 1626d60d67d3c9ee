package auth

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/cotizador-pro/internal/application/dto"
	"github.com/tu-usuario/cotizador-pro/internal/domain"
	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
	"github.com/tu-usuario/cotizador-pro/internal/domain/repository"
	"github.com/tu-usuario/cotizador-pro/pkg/jwt"
	"github.com/tu-usuario/cotizador-pro/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro con código de empresa,
// login y resolución de rol/permisos.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	jwtCfg      JWTConfig
	companyCode string
	notifier    *Notifier
	log         *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth. companyCode es el código
// compartido que habilita el registro (una sola organización).
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, companyCode string, notifier *Notifier, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		jwtCfg:      jwtCfg,
		companyCode: companyCode,
		notifier:    notifier,
		log:         log,
	}
}

// ValidateCompanyCode reporta si el código suministrado habilita el registro.
// Comparación en tiempo constante: el código funciona como secreto compartido.
func (uc *AuthUseCase) ValidateCompanyCode(code string) bool {
	if uc.companyCode == "" || code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(uc.companyCode), []byte(code)) == 1
}

// Register crea un perfil de usuario. Falla con ErrCodigoRequerido si no se
// suministró un código de empresa válido, y con ErrEmailAlreadyExists si el
// email ya tiene perfil. El rol por defecto es vendedor (menor privilegio).
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if !uc.ValidateCompanyCode(in.CompanyCode) {
		return nil, domain.ErrCodigoRequerido
	}
	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	role := in.Role
	if role == "" {
		role = entity.RoleVendedor
	}
	user := &entity.UserProfile{
		ID:           uuid.New().String(),
		Email:        in.Email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.notifier.Publish(Event{Type: EventRegistered, Email: user.Email, At: now})
	uc.log.Info().Str("email", user.Email).Str("role", user.Role).Msg("usuario registrado")
	return toUserResponse(user), nil
}

// Login verifica email/password, refresca lastLogin, genera JWT y retorna
// token + perfil resuelto.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	if err := uc.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// No invalida el login: lastLogin es informativo.
		uc.log.Warn().Err(err).Str("email", user.Email).Msg("actualizar lastLogin")
	}
	user.LastLogin = now

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}

	uc.notifier.Publish(Event{Type: EventLogin, Email: user.Email, At: now})
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

// Logout publica el evento de cierre de sesión. El token JWT expira solo; no
// hay estado de sesión del lado del servidor que invalidar.
func (uc *AuthUseCase) Logout(email string) {
	uc.notifier.Publish(Event{Type: EventLogout, Email: email, At: time.Now()})
}

// ResetPassword registra la solicitud de restablecimiento. La entrega del
// enlace corre por fuera de este núcleo; la respuesta es idéntica exista o no
// el perfil para no filtrar qué emails están registrados.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, email string) error {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		uc.log.Debug().Str("email", email).Msg("reset solicitado para email sin perfil")
		return nil
	}
	uc.log.Info().Str("email", email).Msg("restablecimiento de contraseña solicitado")
	return nil
}

// Resolve mapea una identidad ya autenticada a su rol y conjunto de permisos.
// Si no existe perfil devuelve el rol de menor privilegio (vendedor): la
// identidad ya fue autenticada, así que la ausencia de perfil no es un error
// sino un default que falla cerrado. Una sola consulta, sin llamadas en cadena.
func (uc *AuthUseCase) Resolve(ctx context.Context, email string) (role string, permissions []string, err error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return entity.RoleVendedor, entity.PermissionsForRole(entity.RoleVendedor), nil
	}
	return user.Role, entity.PermissionsForRole(user.Role), nil
}

func toUserResponse(u *entity.UserProfile) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Permissions: entity.PermissionsForRole(u.Role),
		Status:      u.Status,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
