package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Boulangerie-api/internal/application/dto"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
	"github.com/jhoicas/Boulangerie-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Acciones protegidas consultables vía HasPermission.
const (
	ActionCancelSale      = "sale:cancel"
	ActionValidateDemande = "demande:validate"
	ActionProduce         = "production:run"
	ActionReplenish       = "stock:replenish"
)

// rolePermissions mapa rol → acciones permitidas. admin puede todo.
var rolePermissions = map[string]map[string]bool{
	entity.RoleMagasinier: {
		ActionValidateDemande: true,
		ActionProduce:         true,
		ActionReplenish:       true,
	},
	entity.RoleVendeur: {},
}

// AuthUseCase casos de uso de autenticación: registro, login y permisos.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.userRepo.GetByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	role := in.Role
	if role == "" {
		role = entity.RoleVendeur
	}
	if role != entity.RoleAdmin && role != entity.RoleMagasinier && role != entity.RoleVendeur {
		return nil, domain.ErrInvalidInput
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
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(in.Email)
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
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// HasPermission responde si el usuario puede ejecutar la acción. Resuelve el
// rol contra la DB: un usuario inactivo o inexistente no tiene permisos.
func (uc *AuthUseCase) HasPermission(actorID, action string) bool {
	user, err := uc.userRepo.GetByID(actorID)
	if err != nil || user == nil || user.Status != "active" {
		return false
	}
	if user.Role == entity.RoleAdmin {
		return true
	}
	return rolePermissions[user.Role][action]
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
