package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rouic/trendguesser-sub002/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken = errors.New("无效的令牌")
	ErrTokenExpired = errors.New("令牌已过期")
)

// authService 认证服务实现
type authService struct {
	jwtManager *utils.JWTManager
	log        *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(jwtManager *utils.JWTManager, log *zap.Logger) AuthService {
	return &authService{
		jwtManager: jwtManager,
		log:        log,
	}
}

// IssueAnonymousToken 为匿名玩家签发令牌
func (s *authService) IssueAnonymousToken(ctx context.Context, name string) (*AuthResponse, error) {
	uid := uuid.New().String()
	if name == "" {
		name = fmt.Sprintf("Player-%s", uid[:8])
	}

	token, expiresAt, err := s.jwtManager.GenerateToken(uid, name)
	if err != nil {
		s.log.Error("Failed to generate token", zap.Error(err))
		return nil, fmt.Errorf("生成令牌失败: %w", err)
	}

	return &AuthResponse{
		Token:     token,
		UID:       uid,
		Name:      name,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateToken 验证令牌
func (s *authService) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		if errors.Is(err, utils.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	return claims, nil
}
