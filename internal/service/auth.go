package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rocketscienceinc/blackwhite-backend/internal/apperror"
)

const tokenTTL = 24 * time.Hour

type AuthService interface {
	GenerateToken(playerID string) (string, error)
	// ParseToken returns the participant id carried by a valid token.
	ParseToken(token string) (string, error)
}

type authServiceImpl struct {
	secretKey []byte
}

func NewAuthService(secretKey string) AuthService {
	return &authServiceImpl{
		secretKey: []byte(secretKey),
	}
}

func (that *authServiceImpl) GenerateToken(playerID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   playerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(that.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (that *authServiceImpl) ParseToken(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return that.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrUnauthorized, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: %w", apperror.ErrUnauthorized, errors.New("token has no subject"))
	}

	return claims.Subject, nil
}
