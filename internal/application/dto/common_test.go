package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

func TestDefaultPage(t *testing.T) {
	cases := []struct {
		name string
		in   dto.PageRequest
		want dto.PageRequest
	}{
		{"vacía", dto.PageRequest{}, dto.PageRequest{Limit: 20}},
		{"acotada", dto.PageRequest{Limit: 500, Offset: 40}, dto.PageRequest{Limit: 100, Offset: 40}},
		{"offset negativo", dto.PageRequest{Limit: 5, Offset: -1}, dto.PageRequest{Limit: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.DefaultPage()
			assert.Equal(t, tc.want, p)
		})
	}
}

func TestResult_PaginaLlenaIndicaMas(t *testing.T) {
	p := dto.PageRequest{Limit: 2, Offset: 4}
	assert.Equal(t, dto.PageResponse{Limit: 2, Offset: 4, Count: 2, HasMore: true}, p.Result(2))
	assert.False(t, p.Result(1).HasMore)
}
