package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TokenTypeShare = "share"

var ErrInvalidShareToken = errors.New("invalid share token")

type ShareClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

type ShareToken struct {
	Token       string
	ItineraryID string
	ExpiresAt   time.Time
}

// ShareManager подписывает ссылки для просмотра маршрута без доступа к хранилищу владельца.
type ShareManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewShareManager инициализирует менеджер ссылок.
func NewShareManager(secret string, issuer string, ttl time.Duration) *ShareManager {
	return &ShareManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// NewShareToken создает подписанный токен для маршрута.
func (m *ShareManager) NewShareToken(itineraryID string) (ShareToken, error) {
	if strings.TrimSpace(itineraryID) == "" {
		return ShareToken{}, ErrInvalidShareToken
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := ShareClaims{
		TokenType: TokenTypeShare,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   itineraryID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return ShareToken{}, err
	}

	return ShareToken{
		Token:       signed,
		ItineraryID: itineraryID,
		ExpiresAt:   expiresAt,
	}, nil
}

// ParseShareToken валидирует токен и возвращает идентификатор маршрута.
func (m *ShareManager) ParseShareToken(tokenString string) (string, error) {
	claims := &ShareClaims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", errors.Join(ErrInvalidShareToken, err)
	}

	if !token.Valid || claims.TokenType != TokenTypeShare || claims.Subject == "" {
		return "", ErrInvalidShareToken
	}

	return claims.Subject, nil
}
