package auth

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	jwt *JWTManager
}

func NewService(jwtManager *JWTManager) *Service {
	return &Service{jwt: jwtManager}
}

// IssueAccessToken signs a token for userID. Identity is owned by the
// external auth provider; this is used by the operator CLI and tests.
func (s *Service) IssueAccessToken(userID string) (string, time.Time, error) {
	if s.jwt == nil {
		return "", time.Time{}, fmt.Errorf("jwt manager is nil")
	}
	return s.jwt.GenerateAccessToken(userID)
}

func (s *Service) ValidateAccessToken(_ context.Context, accessToken string) (AccessClaims, error) {
	if s.jwt == nil {
		return AccessClaims{}, ErrUnauthorized
	}
	return s.jwt.ParseAccessToken(accessToken)
}
