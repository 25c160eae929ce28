package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopcore-next/internal/cache"
	"github.com/shopcore-next/internal/config"
	"github.com/shopcore-next/internal/logger"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var errTokenInvalid = errors.New("token invalid")

// AuthService 管理员认证服务
type AuthService struct {
	cfg       config.JWTConfig
	adminRepo repository.AdminRepository
	now       func() time.Time
}

// NewAuthService 创建管理员认证服务
func NewAuthService(cfg config.JWTConfig, adminRepo repository.AdminRepository) *AuthService {
	return &AuthService{
		cfg:       cfg,
		adminRepo: adminRepo,
		now:       time.Now,
	}
}

// HashPassword 使用 bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 校验密码
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// JWTClaims 管理员 JWT 声明
type JWTClaims struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成管理员 Token
func (s *AuthService) GenerateJWT(admin *models.Admin) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(time.Duration(resolveExpireHours(s.cfg.ExpireHours, 24)) * time.Hour)
	claims := JWTClaims{
		AdminID:      admin.ID,
		Username:     admin.Username,
		TokenVersion: admin.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return signToken(claims, s.cfg.SecretKey, expiresAt)
}

// ParseJWT 解析管理员 Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	if err := parseToken(tokenString, s.cfg.SecretKey, claims); err != nil {
		return nil, err
	}
	if claims.AdminID == 0 {
		return nil, errTokenInvalid
	}
	return claims, nil
}

// Login 管理员登录
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Admin, string, time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := s.now()
	if err := s.adminRepo.TouchLastLogin(ctx, admin.ID, now); err != nil {
		logger.Ctx(ctx).Warnw("admin_touch_last_login_failed", "admin_id", admin.ID, "error", err)
	}
	admin.LastLoginAt = &now
	_ = cache.SetAdminAuthState(ctx, cache.BuildAdminAuthState(admin))
	return admin, token, expiresAt, nil
}

func signToken(claims jwt.Claims, secret string, expiresAt time.Time) (string, time.Time, error) {
	if strings.TrimSpace(secret) == "" {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func parseToken(tokenString, secret string, claims jwt.Claims) error {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errTokenInvalid
	}
	return nil
}

func resolveExpireHours(hours, fallback int) int {
	if hours <= 0 {
		return fallback
	}
	return hours
}
