package service

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/model"
	"Dreamscape/internal/pkg/security"
	"Dreamscape/internal/pkg/util"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLogin_UpdatesOnlyReportedColumns(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, new(MockBlacklist), "")
	stored := &model.User{ID: 8, OpenID: "o-1", Name: util.PtrStr("Ann"), Role: model.RoleUser, LastSignedIn: time.Now()}
	userRepo.On("UpsertUser", mock.Anything, mock.AnythingOfType("*model.User"),
		[]string{"last_signed_in", "updated_at", "name"}).Return(stored, nil)

	out, err := svc.Login(context.Background(), &dto.LoginDTO{OpenID: "o-1", Name: util.PtrStr("Ann")})

	require.NoError(t, err)
	assert.Equal(t, uint64(8), out.User.ID)
	claims, err := security.ValidateToken(out.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), claims.UserID)
	assert.Equal(t, []string{model.RoleUser}, claims.Roles)
	userRepo.AssertExpectations(t)
}

func TestLogin_OwnerBecomesAdmin(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, new(MockBlacklist), "owner")
	userRepo.On("UpsertUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleAdmin
	}), []string{"last_signed_in", "updated_at", "role"}).
		Return(&model.User{ID: 1, OpenID: "owner", Role: model.RoleAdmin}, nil)

	out, err := svc.Login(context.Background(), &dto.LoginDTO{OpenID: "owner"})

	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, out.User.Role)
}

func TestLogin_MissingOpenID(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, new(MockBlacklist), "")

	_, err := svc.Login(context.Background(), &dto.LoginDTO{})

	assert.True(t, errors.Is(err, ErrParamInvalid))
	userRepo.AssertNotCalled(t, "UpsertUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetUser_NotFound(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, new(MockBlacklist), "")
	userRepo.On("GetUserById", mock.Anything, uint64(4)).Return(nil, nil)

	_, err := svc.GetUser(context.Background(), 4)

	assert.Equal(t, ErrUserNotFound, err)
}

func TestLogout_RevokesSignature(t *testing.T) {
	blacklist := new(MockBlacklist)
	svc := NewUserService(new(MockUserRepo), blacklist, "")
	token, err := security.GenerateToken(3, []string{model.RoleUser})
	require.NoError(t, err)
	signature, err := security.ExtractSignature(token)
	require.NoError(t, err)
	blacklist.On("Revoke", mock.Anything, signature, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0
	})).Return(nil)

	require.NoError(t, svc.Logout(context.Background(), token))
	blacklist.AssertExpectations(t)

	// 非法 token 直接忽略
	require.NoError(t, svc.Logout(context.Background(), "not-a-token"))
	blacklist.AssertNumberOfCalls(t, "Revoke", 1)
}
