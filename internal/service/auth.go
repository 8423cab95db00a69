package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aegisai/backend/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrMisconfigured = errors.New("auth config invalid")
)

// AuthService - 단일 운영자 계정 기반 인증
//
// 계정은 환경변수(OPERATOR_ID / OPERATOR_PASSWORD_HASH)로만 정의되며
// 별도의 사용자 테이블을 두지 않습니다.
type AuthService struct {
	operatorID   string
	passwordHash []byte
	jwtSecret    []byte
	accessTTL    time.Duration
}

type authClaims struct {
	LoginID string `json:"loginId"`
	jwt.RegisteredClaims
}

func NewAuthService(cfg config.AuthConfig) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}
	if cfg.OperatorPasswordHash == "" {
		return nil, fmt.Errorf("%w: OPERATOR_PASSWORD_HASH is required", ErrMisconfigured)
	}
	if _, err := bcrypt.Cost([]byte(cfg.OperatorPasswordHash)); err != nil {
		return nil, fmt.Errorf("%w: OPERATOR_PASSWORD_HASH is not a bcrypt hash", ErrMisconfigured)
	}

	ttlMinutes := cfg.AccessTTLMinutes
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}

	return &AuthService{
		operatorID:   cfg.OperatorID,
		passwordHash: []byte(cfg.OperatorPasswordHash),
		jwtSecret:    []byte(cfg.JWTSecret),
		accessTTL:    time.Duration(ttlMinutes) * time.Minute,
	}, nil
}

// Login - 운영자 자격 증명 검증 후 액세스 토큰 발급
func (s *AuthService) Login(loginID, password string) (string, int, error) {
	if loginID != s.operatorID {
		return "", 0, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", 0, ErrUnauthorized
	}

	now := time.Now()
	claims := authClaims{
		LoginID: loginID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   loginID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, err
	}
	return signed, int(s.accessTTL.Seconds()), nil
}

// ParseAccessToken - 토큰 검증 후 로그인 ID 반환
func (s *AuthService) ParseAccessToken(tokenStr string) (string, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrUnauthorized
	}
	return claims.LoginID, nil
}
