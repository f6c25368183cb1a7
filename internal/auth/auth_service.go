package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrNoSession 表示请求中没有有效会话（缺失、过期、签名错误或已注销）。
var ErrNoSession = errors.New("no valid session")

const revokedKeyPrefix = "auth:session:revoked:"

// AuthService 负责签发、解析与注销后台会话令牌。
type AuthService struct {
	secret     []byte
	sessionTTL time.Duration
	store      Store
}

// SessionClaims 表示会话令牌中的业务字段。
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewAuthService 使用 HS256 密钥构造服务实例。store 用于记录已注销的令牌。
func NewAuthService(secret string, sessionTTL time.Duration, store Store) (*AuthService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if sessionTTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	if store == nil {
		return nil, errors.New("session store is required")
	}
	return &AuthService{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		store:      store,
	}, nil
}

// IssueSession 为管理员签发新的会话令牌。
func (s *AuthService) IssueSession(userID uint, username string) (string, *SessionClaims, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// ValidateToken 解析并验证令牌签名与有效期，不检查注销状态。
func (s *AuthService) ValidateToken(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.ID == "" {
		return nil, errors.New("token missing jti")
	}
	return claims, nil
}

// ResolveSession 校验令牌并确认未被注销；任何失败都归为 ErrNoSession，
// 存储故障除外（以包装后的原始错误返回）。
func (s *AuthService) ResolveSession(ctx context.Context, tokenString string) (*SessionClaims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	revoked, err := s.store.Exists(ctx, revokedKeyPrefix+claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check session revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: session revoked", ErrNoSession)
	}
	return claims, nil
}

// RevokeSession 注销令牌直到其自然过期。
func (s *AuthService) RevokeSession(ctx context.Context, claims *SessionClaims) error {
	ttl := s.sessionTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.store.Set(ctx, revokedKeyPrefix+claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// SessionTTL 暴露会话有效期。
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}
