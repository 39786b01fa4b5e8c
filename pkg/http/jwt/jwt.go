// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer          = "quizhub"
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = jwt.ErrTokenExpired
)

type AuthClaims struct {
	UserId uint64 `json:"userId"`
	Use    string `json:"use"`
	jwt.RegisteredClaims
}

// TokenPair is returned on sign-in, sign-up and refresh.
type TokenPair struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// GenToken signs an access and a refresh token. Expiries are in minutes.
func GenToken(userId uint64, secretKey []byte, accessExpired, refreshExpired time.Duration) (*TokenPair, error) {
	now := time.Now()
	aToken, err := sign(userId, tokenUseAccess, secretKey, now, accessExpired*time.Minute)
	if err != nil {
		log.Errorw("sign access token failed", "error", err)
		return nil, err
	}

	refreshExp := now.Add(refreshExpired * time.Minute)
	rToken, err := sign(userId, tokenUseRefresh, secretKey, now, refreshExpired*time.Minute)
	if err != nil {
		log.Errorw("sign refresh token failed", "error", err)
		return nil, err
	}

	return &TokenPair{
		AccessToken:           aToken,
		RefreshToken:          rToken,
		RefreshTokenExpiresAt: refreshExp.Truncate(time.Second),
	}, nil
}

func sign(userId uint64, use string, secretKey []byte, now time.Time, ttl time.Duration) (string, error) {
	claims := &AuthClaims{
		UserId: userId,
		Use:    use,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatUint(userId, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ParseToken validates an access token.
func ParseToken(aToken, secretKey string) (*AuthClaims, error) {
	return parse(aToken, secretKey, tokenUseAccess)
}

// RefreshToken validates rToken and issues a fresh pair for its subject.
func RefreshToken(rToken, secretKey string, accessExpired, refreshExpired time.Duration) (*TokenPair, error) {
	claims, err := parse(rToken, secretKey, tokenUseRefresh)
	if err != nil {
		return nil, err
	}
	return GenToken(claims.UserId, []byte(secretKey), accessExpired, refreshExpired)
}

func parse(tokenString, secretKey, use string) (*AuthClaims, error) {
	claims := new(AuthClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Use != use {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
