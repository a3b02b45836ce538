package jwt_test

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Inventario-ledger/pkg/jwt"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "u-1", "b-1", "supervisor", "test", 5)
	require.NoError(t, err)

	id, err := pkgjwt.Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.Identity{UserID: "u-1", BranchID: "b-1", Role: "supervisor"}, id)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "u-1", "b-1", "admin", "test", 5)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("otro", tok)
	assert.ErrorIs(t, err, gojwt.ErrTokenSignatureInvalid)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u-1", "b-1", "admin", "test", 5)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
	_, err = pkgjwt.Parse("", "x.y.z")
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "u-1", "b-1", "admin", "test", -5)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("secreto", tok)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestParse_SinSucursal(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "u-1", "", "admin", "test", 5)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("secreto", tok)
	assert.ErrorIs(t, err, pkgjwt.ErrIncomplete)
}

func TestParse_AlgoritmoNoPermitido(t *testing.T) {
	claims := pkgjwt.Claims{UserID: "u-1", BranchID: "b-1"}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte("secreto"))
	require.NoError(t, err)
	_, err = pkgjwt.Parse("secreto", tok)
	assert.Error(t, err)
}
