package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"shop/internal/auth"
	"shop/internal/domain/model"
	"shop/internal/repository"
)

// JWTを発行する約束
type TokenIssuer interface {
	Issue(s auth.Subject, now time.Time) (token string, expiresAt time.Time, err error)
}

type UserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	verifier PasswordVerifier
	issuer   TokenIssuer
	clock    Clock
}

// DI
func NewUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	clock Clock,
) *UserUsecase {
	return &UserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// 会員登録の入力
type RegisterInput struct {
	Username string
	Password string
	Nickname string
}

type RegisterOutput struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type LoginInput struct {
	Username string
	Password string
}

type LoginOutput struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      model.User `json:"user"`
}

// 会員登録実行
func (u *UserUsecase) Register(ctx context.Context, in RegisterInput) (RegisterOutput, error) {
	username := strings.TrimSpace(in.Username)
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return RegisterOutput{}, NewHTTPError(http.StatusBadRequest, "username must be 3-50 characters")
	}
	// password の長さチェック
	if len(in.Password) < 6 {
		return RegisterOutput{}, NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}
	if len(in.Password) > maxPasswordBytes {
		return RegisterOutput{}, errPasswordTooLong
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return RegisterOutput{}, internalError(ctx, "hash password", err)
	}

	nickname := strings.TrimSpace(in.Nickname)
	if nickname == "" {
		nickname = username
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Nickname:     nickname,
		Status:       model.AccountStatusActive,
	}

	// 重複は一意制約で判定
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return RegisterOutput{}, NewHTTPError(http.StatusBadRequest, "username already exists")
		}
		return RegisterOutput{}, internalError(ctx, "create user", err)
	}

	return RegisterOutput{UserID: user.ID, Username: user.Username}, nil
}

// ログイン処理を実行する
func (u *UserUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	invalid := NewHTTPError(http.StatusUnauthorized, "invalid username or password")

	user, err := u.userRepo.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, repository.ErrNotFound) {
		return LoginOutput{}, invalid
	}
	if err != nil {
		return LoginOutput{}, internalError(ctx, "find user", err)
	}

	//停止ユーザーはログイン不可
	if !user.IsActive() {
		return LoginOutput{}, invalid
	}
	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return LoginOutput{}, invalid
	}

	now := u.clock.Now()
	token, exp, err := u.issuer.Issue(auth.Subject{ID: user.ID, Username: user.Username, Role: auth.RoleUser}, now)
	if err != nil {
		return LoginOutput{}, internalError(ctx, "issue token", err)
	}

	//最終ログイン時刻更新
	if err := u.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return LoginOutput{}, internalError(ctx, "update last login", err)
	}
	user.LastLoginAt = &now

	return LoginOutput{Token: token, ExpiresAt: exp, User: *user}, nil
}

func (u *UserUsecase) Profile(ctx context.Context, ac auth.Context) (model.User, error) {
	userID, ok := ac.UserID()
	if !ok {
		return model.User{}, errLoginRequired
	}
	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, internalError(ctx, "find user", err)
	}
	return *user, nil
}

type UpdateProfileInput struct {
	Nickname  string
	AvatarURL string
}

func (u *UserUsecase) UpdateProfile(ctx context.Context, ac auth.Context, in UpdateProfileInput) (model.User, error) {
	userID, ok := ac.UserID()
	if !ok {
		return model.User{}, errLoginRequired
	}
	nickname := strings.TrimSpace(in.Nickname)
	if utf8.RuneCountInString(nickname) > 50 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "nickname must be at most 50 characters")
	}
	avatar := strings.TrimSpace(in.AvatarURL)
	if len(avatar) > 500 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "avatar_url is too long")
	}

	err := u.userRepo.UpdateProfile(ctx, userID, nickname, avatar)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, internalError(ctx, "update profile", err)
	}
	return u.Profile(ctx, ac)
}
