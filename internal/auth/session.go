// Package auth 基于 JWT 的会话 cookie
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName 会话 cookie 名
const CookieName = "sessionid"

var ErrInvalidSession = errors.New("invalid session")

// Principal 已登录用户
type Principal struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Claims 会话令牌载荷
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionManager 签发与校验会话令牌
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL 会话有效期
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Issue 为用户签发令牌
func (m *SessionManager) Issue(p Principal) (string, error) {
	now := m.now()
	claims := Claims{
		Username: p.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Parse 校验令牌并返回用户
func (m *SessionManager) Parse(raw string) (*Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrInvalidSession
	}
	return &Principal{ID: uint(id), Username: claims.Username}, nil
}
