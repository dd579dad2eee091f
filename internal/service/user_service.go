package service

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/model"
	"Dreamscape/internal/pkg/security"
	"Dreamscape/internal/repository"
	"context"
	log "log/slog"
	"time"
)

// TokenBlacklist 注销后的 Token 在过期前不可再用
type TokenBlacklist interface {
	Revoke(ctx context.Context, signature string, ttl time.Duration) error
	IsRevoked(ctx context.Context, signature string) (bool, error)
}

type UserService interface {
	Login(ctx context.Context, req *dto.LoginDTO) (*dto.LoginResultDTO, error)
	GetUser(ctx context.Context, userID uint64) (*dto.UserDTO, error)
	Logout(ctx context.Context, token string) error
}

type userServiceImpl struct {
	userRepo    repository.UserRepo
	blacklist   TokenBlacklist
	ownerOpenID string
}

func NewUserService(userRepo repository.UserRepo, blacklist TokenBlacklist, ownerOpenID string) UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		blacklist:   blacklist,
		ownerOpenID: ownerOpenID,
	}
}

// Login 以 open_id 幂等写入用户，只覆盖本次上报的字段
func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginDTO) (*dto.LoginResultDTO, error) {
	if err := validateDTO(req); err != nil {
		return nil, err
	}

	now := time.Now()
	user := &model.User{
		OpenID:       req.OpenID,
		Name:         req.Name,
		Email:        req.Email,
		LoginMethod:  req.LoginMethod,
		Role:         model.RoleUser,
		LastSignedIn: now,
	}
	updateColumns := []string{"last_signed_in", "updated_at"}
	if req.Name != nil {
		updateColumns = append(updateColumns, "name")
	}
	if req.Email != nil {
		updateColumns = append(updateColumns, "email")
	}
	if req.LoginMethod != nil {
		updateColumns = append(updateColumns, "login_method")
	}
	if s.ownerOpenID != "" && req.OpenID == s.ownerOpenID {
		user.Role = model.RoleAdmin
		updateColumns = append(updateColumns, "role")
	}

	stored, err := s.userRepo.UpsertUser(ctx, user, updateColumns)
	if err != nil {
		return nil, wrapWriteErr(err)
	}

	token, err := security.GenerateToken(stored.ID, []string{stored.Role})
	if err != nil {
		return nil, err
	}

	userDTO := &dto.UserDTO{}
	if err = copyTo(userDTO, stored); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "user signed in", "userID", stored.ID, "role", stored.Role)
	return &dto.LoginResultDTO{Token: token, User: userDTO}, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		if degradeRead(ctx, "GetUser", err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	userDTO := &dto.UserDTO{}
	if err = copyTo(userDTO, user); err != nil {
		return nil, err
	}
	return userDTO, nil
}

// Logout 将 Token 签名加入黑名单，有效期与 Token 剩余时间一致
func (s *userServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := security.ValidateToken(token)
	if err != nil {
		return nil
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return nil
	}
	return s.blacklist.Revoke(ctx, signature, security.RemainingTTL(claims))
}
