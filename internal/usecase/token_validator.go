package usecase

import (
	"splashboard/internal/pkg/errs"
	"splashboard/internal/pkg/jwt"
)

var ErrInvalidAccessToken = errs.New("invalid access token")

// TokenValidator は認可ミドルウェアが使うアクセストークン検証口。
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*jwt.Claims, error)
}

type tokenValidatorImpl struct {
	jwt *jwt.Service
}

func NewTokenValidator(jwtSvc *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{jwt: jwtSvc}
}

func (v *tokenValidatorImpl) ValidateAccessToken(tokenString string) (*jwt.Claims, error) {
	claims, err := v.jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrInvalidAccessToken
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return nil, ErrInvalidAccessToken
	}
	return claims, nil
}
