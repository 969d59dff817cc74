package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"dartserver/models"

	jwt "github.com/dgrijalva/jwt-go"
)

// トークンの有効期限
const TokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// RoleFor は入力されたPINから端末の役割を決める。
// PINが設定されていない場合はすべての端末が得点を入力できる。
func RoleFor(pin, scorerPIN string) string {
	if scorerPIN == "" {
		return models.RoleScorer
	}
	if subtle.ConstantTimeCompare([]byte(pin), []byte(scorerPIN)) == 1 {
		return models.RoleScorer
	}
	return models.RoleViewer
}

// GenerateToken は役割とニックネームを含むJWTトークンを生成する
func GenerateToken(role, nickname string, key []byte, now time.Time) (string, error) {
	claims := &models.MyClaims{
		Role:     role,
		Nickname: nickname,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(TokenTTL).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ParseToken validates tokenString (with or without a "Bearer " prefix) and returns its claims.
func ParseToken(tokenString string, key []byte) (*models.MyClaims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidToken)
	}

	claims := &models.MyClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != models.RoleScorer && claims.Role != models.RoleViewer {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	return claims, nil
}
