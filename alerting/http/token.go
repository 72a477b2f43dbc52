package http

import (
	"fmt"
	"time"

	"alertflow/internal/config"
	"alertflow/pkg/aferrors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// OperatorClaims identifies an authenticated operator. The name ends up on
// every silence record the operator creates.
type OperatorClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies operator JWTs against the configured
// operator list.
type TokenService struct {
	secret      []byte
	expireHours int
	operators   map[string]string // username -> bcrypt hash
}

func NewTokenService(cfg config.JWTConfig, operators []config.OperatorConfig) *TokenService {
	byName := make(map[string]string, len(operators))
	for _, op := range operators {
		byName[op.Username] = op.PasswordHash
	}
	expire := cfg.ExpireHours
	if expire <= 0 {
		expire = 12
	}
	return &TokenService{
		secret:      []byte(cfg.Secret),
		expireHours: expire,
		operators:   byName,
	}
}

// Login verifies credentials and issues a signed token.
func (t *TokenService) Login(username, password string) (string, int64, error) {
	hash, ok := t.operators[username]
	if !ok {
		return "", 0, aferrors.ErrOperatorNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", 0, aferrors.ErrInvalidPassword
	}

	expiresIn := time.Duration(t.expireHours) * time.Hour
	claims := &OperatorClaims{
		Name: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    "alertflow",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(expiresIn.Seconds()), nil
}

// Parse validates a token string and returns its claims.
func (t *TokenService) Parse(tokenString string) (*OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*OperatorClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, aferrors.ErrInvalidToken
}

// ParseOperator satisfies the auth middleware's TokenParser.
func (t *TokenService) ParseOperator(tokenString string) (string, error) {
	claims, err := t.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Name, nil
}
