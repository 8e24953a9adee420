package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
)

const (
	algoSHA512 = "sha512"
	algoPBKDF2 = "pbkdf2"

	pbkdf2Iterations = 260000
	pbkdf2KeyLen     = 64
)

// 未知用户时照样跑一次 KDF，让失败路径耗时一致
const dummyRecord = "pbkdf2$00000000000000000000000000000000$" +
	"0000000000000000000000000000000000000000000000000000000000000000" +
	"0000000000000000000000000000000000000000000000000000000000000000"

// AuthService 凭证管理：注册、登录校验、改密
type AuthService interface {
	Register(ctx context.Context, username, fullname, email, filename, password string) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
	GetUser(ctx context.Context, username string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(ctx context.Context, username, fullname, email, filename, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u := &model.User{
		Username: username,
		Fullname: fullname,
		Email:    email,
		Filename: filename,
		Password: HashPassword(password),
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate 登录校验。用户名只做参数化的精确匹配，
// 未知用户、密码错误、存储记录损坏一律返回 ErrInvalidCredentials，
// 外部观察不到任何差别。
func (s *authService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		verifyPassword(dummyRecord, password)
		return nil, ErrInvalidCredentials
	}
	if !verifyPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *authService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidCredentials
	}
	if _, err := s.Authenticate(ctx, username, oldPassword); err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, username, HashPassword(newPassword)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *authService) GetUser(ctx context.Context, username string) (*model.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return nil, ErrUnknownUser
	}
	return u, nil
}

// HashPassword 生成 <algorithm>$<salt>$<hash> 记录，盐每用户唯一
func HashPassword(password string) string {
	salt := strings.ReplaceAll(uuid.New().String(), "-", "")
	return algoPBKDF2 + "$" + salt + "$" + deriveHex(algoPBKDF2, salt, password)
}

// verifyPassword 用存储记录里的盐重算哈希并做恒定时间比较。
// 兼容历史 sha512 记录；记录格式损坏按校验失败处理。
func verifyPassword(record, password string) bool {
	parts := strings.SplitN(record, "$", 3)
	if len(parts) != 3 {
		return false
	}
	algorithm, salt, stored := parts[0], parts[1], parts[2]
	if algorithm != algoSHA512 && algorithm != algoPBKDF2 {
		return false
	}
	computed := deriveHex(algorithm, salt, password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}

func deriveHex(algorithm, salt, password string) string {
	switch algorithm {
	case algoPBKDF2:
		key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha512.New)
		return hex.EncodeToString(key)
	default:
		sum := sha512.Sum512([]byte(salt + password))
		return hex.EncodeToString(sum[:])
	}
}
