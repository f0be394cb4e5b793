package service

import (
	"context"
	"time"

	"github.com/yhubail/graphql/internal/repository"
	"github.com/yhubail/graphql/internal/util"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService 对上游平台换取并保管单个Bearer令牌。
// 平台持有签名密钥，这里只解析声明做过期预判，不做本地校验。
type AuthService struct {
	ProfileRepo *repository.ProfileRepository
	SessionRepo *repository.SessionRepository
}

func NewAuthService(profileRepo *repository.ProfileRepository, sessionRepo *repository.SessionRepository) *AuthService {
	return &AuthService{
		ProfileRepo: profileRepo,
		SessionRepo: sessionRepo,
	}
}

// Signin 换取令牌并写入凭证存储，返回令牌及其过期时间
func (s *AuthService) Signin(ctx context.Context, identifier, password string) (string, time.Time, error) {
	token, err := s.ProfileRepo.Signin(ctx, identifier, password)
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt := TokenExpiry(token)
	if err := s.SessionRepo.Save(ctx, token); err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *AuthService) Signout(ctx context.Context) error {
	return s.SessionRepo.Clear(ctx)
}

// CurrentToken 取当前令牌。已过期的令牌就地清除并按无会话处理，
// 调用方收到 ErrNoSession 后引导重新认证。
func (s *AuthService) CurrentToken(ctx context.Context) (string, error) {
	token, err := s.SessionRepo.Current(ctx)
	if err != nil {
		return "", err
	}

	expiry := TokenExpiry(token)
	if !expiry.IsZero() && time.Now().After(expiry) {
		_ = s.SessionRepo.Clear(ctx)
		return "", util.ErrNoSession
	}
	return token, nil
}

// TokenExpiry 不校验签名，只读exp声明；解析失败返回零值
func TokenExpiry(token string) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
