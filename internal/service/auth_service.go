package service

import (
	"crypto/subtle"
	"time"

	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

// LoginResult 登录成功后返回给管理端
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService checks the single configured admin account.
type AuthService struct {
	Cfg *config.AuthConfig
}

func NewAuthService(cfg *config.AuthConfig) *AuthService {
	return &AuthService{Cfg: cfg}
}

func (s *AuthService) Enabled() bool {
	return s.Cfg.Enabled
}

func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	if !s.Cfg.Enabled {
		return nil, util.ErrAuthDisabled
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.Cfg.AdminUsername)) == 1
	if err := bcrypt.CompareHashAndPassword([]byte(s.Cfg.AdminPasswordHash), []byte(password)); err != nil || !userOK {
		return nil, util.ErrInvalidCredentials
	}

	token, expiresAt, err := util.GenerateJWT(username, s.Cfg.JWTSecret, s.Cfg.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

// Verify parses a bearer token issued by Login.
func (s *AuthService) Verify(token string) (*util.Claims, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	if claims.Role != util.RoleAdmin {
		return nil, util.ErrInvalidCredentials
	}
	return claims, nil
}

// HashPassword is used by tooling to produce auth.admin_password_hash.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashed), err
}
