package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"shop/internal/auth"
	"shop/internal/domain/model"
	"shop/internal/logger"
	"shop/internal/repository"

	"go.uber.org/zap"
)

type AdminAuthUsecase struct {
	adminRepo repository.AdminRepository
	hasher    PasswordHasher
	verifier  PasswordVerifier
	issuer    TokenIssuer
	clock     Clock
}

func NewAdminAuthUsecase(
	adminRepo repository.AdminRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	clock Clock,
) *AdminAuthUsecase {
	return &AdminAuthUsecase{
		adminRepo: adminRepo,
		hasher:    hasher,
		verifier:  verifier,
		issuer:    issuer,
		clock:     clock,
	}
}

type AdminLoginOutput struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Admin     model.Admin `json:"admin"`
}

// 管理者ログイン。トークンのroleはadmin
func (u *AdminAuthUsecase) Login(ctx context.Context, username string, password string) (AdminLoginOutput, error) {
	invalid := NewHTTPError(http.StatusUnauthorized, "invalid username or password")

	admin, err := u.adminRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repository.ErrNotFound) {
		return AdminLoginOutput{}, invalid
	}
	if err != nil {
		return AdminLoginOutput{}, internalError(ctx, "find admin", err)
	}
	if !admin.IsActive() || !u.verifier.Verify(password, admin.PasswordHash) {
		return AdminLoginOutput{}, invalid
	}

	now := u.clock.Now()
	token, exp, err := u.issuer.Issue(auth.Subject{ID: admin.ID, Username: admin.Username, Role: auth.RoleAdmin}, now)
	if err != nil {
		return AdminLoginOutput{}, internalError(ctx, "issue token", err)
	}
	if err := u.adminRepo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return AdminLoginOutput{}, internalError(ctx, "update last login", err)
	}
	admin.LastLoginAt = &now

	return AdminLoginOutput{Token: token, ExpiresAt: exp, Admin: *admin}, nil
}

// 初期管理者が無ければ作る。既にあれば何もしない
func (u *AdminAuthUsecase) EnsureAdmin(ctx context.Context, username string, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	if len(password) > maxPasswordBytes {
		return errPasswordTooLong
	}

	_, err := u.adminRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}
	admin := &model.Admin{
		Username:     username,
		PasswordHash: hashed,
		Name:         username,
		Status:       model.AccountStatusActive,
	}
	if err := u.adminRepo.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	logger.FromContext(ctx).Info("bootstrap admin created", zap.String("username", username))
	return nil
}
