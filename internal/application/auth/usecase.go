package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/dto"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/guard"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/repository"
	"github.com/jhoicas/PrecoMonitor-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, confirmación y login.
//
// Registro crea solo la identidad (credenciales + metadata); el perfil de
// aplicación se aprovisiona en el primer login si no existe, con rol
// alimentador por defecto. Es el mismo aprovisionamiento autocurativo del
// almacén de sesión, aplicado del lado servidor.
type AuthUseCase struct {
	identities repository.IdentityRepository
	users      repository.UserRepository
	companies  repository.CompanyRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(identities repository.IdentityRepository, users repository.UserRepository, companies repository.CompanyRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{identities: identities, users: users, companies: companies, jwtCfg: jwtCfg}
}

// Register crea una identidad: hashea password con bcrypt y persiste con la
// metadata de rol. La cuenta queda sin confirmar; el token de confirmación se
// entrega por el canal externo. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	existing, _ := uc.identities.GetByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	role := in.Role
	if role == "" {
		role = entity.RoleAlimentador
	}
	if !entity.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	if in.CompanyID != "" {
		company, err := uc.companies.GetByID(in.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.ErrNotFound // empresa no existe
		}
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
	identity := &entity.Identity{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		CompanyID:    in.CompanyID,
		Confirmed:    false,
		ConfirmToken: uuid.New().String(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.identities.Create(identity); err != nil {
		return nil, err
	}
	return &dto.RegisterResponse{
		ID:      identity.ID,
		Email:   identity.Email,
		Message: "cuenta creada; confirme por el enlace enviado antes de iniciar sesión",
	}, nil
}

// Confirm marca la identidad como confirmada a partir del token enviado fuera
// de banda. Token desconocido devuelve ErrNotFound; reconfirmar es idempotente.
func (uc *AuthUseCase) Confirm(token string) error {
	if token == "" {
		return domain.ErrInvalidInput
	}
	identity, err := uc.identities.GetByConfirmToken(token)
	if err != nil {
		return err
	}
	if identity == nil {
		return domain.ErrNotFound
	}
	if identity.Confirmed {
		return nil
	}
	identity.Confirmed = true
	identity.UpdatedAt = time.Now()
	return uc.identities.Update(identity)
}

// Login verifica credenciales contra la identidad, resuelve (o aprovisiona) el
// perfil, genera el JWT y devuelve también la vista de inicio del rol.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	identity, err := uc.identities.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !identity.Confirmed {
		return nil, domain.ErrUnconfirmed
	}
	user, err := uc.users.GetByID(identity.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = uc.provisionProfile(identity)
		if err != nil {
			return nil, err
		}
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    token,
		User:     *toUserResponse(user),
		Redirect: guard.DefaultLanding(user.Role),
	}, nil
}

// provisionProfile crea el perfil faltante de una identidad confirmada.
// "Perfil no encontrado" es una condición esperada y recuperable, no un error.
func (uc *AuthUseCase) provisionProfile(identity *entity.Identity) (*entity.User, error) {
	role := identity.Role
	if !entity.ValidRole(role) {
		role = entity.RoleAlimentador
	}
	now := time.Now()
	user := &entity.User{
		ID:        identity.ID,
		CompanyID: identity.CompanyID,
		Email:     identity.Email,
		Name:      identity.Name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
