package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret   = errors.New("jwt: secret vacío")
	ErrIncomplete    = errors.New("jwt: el token no trae usuario o sucursal")
	errInvalidClaims = errors.New("jwt: claims inválidos")
)

// leeway tolerancia de reloj entre el emisor y la API.
const leeway = 30 * time.Second

// Claims claims estándar más usuario, sucursal y rol.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	BranchID string `json:"branch_id"`
	Role     string `json:"role"` // "admin" | "supervisor" | "bodeguero"
}

// Identity lo que la API necesita de un token válido.
type Identity struct {
	UserID   string
	BranchID string
	Role     string
}

// Generate firma un token HS256 para la identidad dada, válido expMinutes minutos.
func Generate(secret, userID, branchID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:   userID,
		BranchID: branchID,
		Role:     role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse verifica firma y expiración. Un token sin usuario o sin sucursal devuelve ErrIncomplete.
// El rol puede venir vacío; lo resuelve el RBAC.
func Parse(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, ErrEmptySecret
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(leeway), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, fmt.Errorf("jwt: %w", err)
	}
	if !token.Valid {
		return Identity{}, errInvalidClaims
	}
	id := Identity{UserID: claims.UserID, BranchID: claims.BranchID, Role: claims.Role}
	if id.UserID == "" {
		id.UserID = claims.Subject
	}
	if id.UserID == "" || id.BranchID == "" {
		return Identity{}, ErrIncomplete
	}
	return id, nil
}
