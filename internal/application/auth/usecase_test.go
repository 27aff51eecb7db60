package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Boulangerie-api/internal/application/apptest"
	"github.com/jhoicas/Boulangerie-api/internal/application/auth"
	"github.com/jhoicas/Boulangerie-api/internal/application/dto"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
)

func newAuth() (*apptest.Store, *auth.AuthUseCase) {
	store := apptest.NewStore()
	uc := auth.NewAuthUseCase(&apptest.UserRepo{S: store}, auth.JWTConfig{
		Secret: "test-secret", ExpMinutes: 60, Issuer: "boulangerie-api",
	})
	return store, uc
}

func TestRegisterYLogin(t *testing.T) {
	_, uc := newAuth()

	u, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "v@boulangerie.test", Password: "secret123", Role: entity.RoleVendeur,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendeur, u.Role)

	res, err := uc.Login(dto.LoginRequest{Email: "v@boulangerie.test", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, u.ID, res.User.ID)

	_, err = uc.Login(dto.LoginRequest{Email: "v@boulangerie.test", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	_, uc := newAuth()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "a@b.test", Password: "secret123"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "a@b.test", Password: "otra1234"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestHasPermission_PorRol(t *testing.T) {
	store, uc := newAuth()
	store.Users["adm"] = &entity.User{ID: "adm", Role: entity.RoleAdmin, Status: "active"}
	store.Users["mag"] = &entity.User{ID: "mag", Role: entity.RoleMagasinier, Status: "active"}
	store.Users["ven"] = &entity.User{ID: "ven", Role: entity.RoleVendeur, Status: "active"}
	store.Users["off"] = &entity.User{ID: "off", Role: entity.RoleAdmin, Status: "inactive"}

	assert.True(t, uc.HasPermission("adm", auth.ActionCancelSale))
	assert.True(t, uc.HasPermission("mag", auth.ActionValidateDemande))
	assert.False(t, uc.HasPermission("mag", auth.ActionCancelSale))
	assert.False(t, uc.HasPermission("ven", auth.ActionCancelSale))
	assert.False(t, uc.HasPermission("off", auth.ActionCancelSale))
	assert.False(t, uc.HasPermission("ghost", auth.ActionCancelSale))
}
