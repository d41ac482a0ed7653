package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func NewJWT() (*JWT, error) {
	privateKey, err := loadRSAKey(
		"JWT_PRIVATE_KEY", "JWT_PRIVATE_KEY_FILE", jwt.ParseRSAPrivateKeyFromPEM,
	)
	if err != nil {
		return nil, err
	}
	publicKey, err := loadRSAKey(
		"JWT_PUBLIC_KEY", "JWT_PUBLIC_KEY_FILE", jwt.ParseRSAPublicKeyFromPEM,
	)
	if err != nil {
		return nil, err
	}

	return &JWT{
		privateKey:    privateKey,
		publicKey:     publicKey,
		signingMethod: jwt.GetSigningMethod("RS256"),
		tokenLifetime: time.Hour * 24 * 30,
	}, nil
}

func loadRSAKey[K any](
	env, fileEnv string, parse func([]byte) (K, error),
) (K, error) {
	var zero K
	if keyStr, ok := os.LookupEnv(env); ok {
		return parse([]byte(keyStr))
	}
	keyPath, ok := os.LookupEnv(fileEnv)
	if !ok {
		return zero, fmt.Errorf("no %s or %s env variable set", env, fileEnv)
	}
	keyBytes, err := os.ReadFile(keyPath)
	if err != nil {
		return zero, fmt.Errorf("unable to read %s: %w", fileEnv, err)
	}
	return parse(keyBytes)
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.publicKey, nil
		},
	)
}
