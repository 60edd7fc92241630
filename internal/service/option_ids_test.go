package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahlct/E-Portal-server/pkg/apperr"
)

func TestNormalizeOptionIDs(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	cases := []struct {
		name string
		raw  []string
		want []uuid.UUID
	}{
		{"single ids", []string{a.String(), b.String()}, []uuid.UUID{a, b}},
		{"comma separated", []string{a.String() + "," + b.String()}, []uuid.UUID{a, b}},
		{"json array", []string{fmt.Sprintf(`["%s","%s"]`, a, b)}, []uuid.UUID{a, b}},
		{"mixed with whitespace", []string{" " + a.String() + " ", b.String() + "," + c.String()}, []uuid.UUID{a, b, c}},
		{"duplicates collapse", []string{a.String(), a.String() + "," + b.String()}, []uuid.UUID{a, b}},
		{"empty elements skipped", []string{"", a.String(), " "}, []uuid.UUID{a}},
		{"nothing", nil, []uuid.UUID{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeOptionIDs(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeOptionIDs_Invalid(t *testing.T) {
	for _, raw := range [][]string{
		{"not-a-uuid"},
		{"[broken json"},
		{uuid.New().String() + ",oops"},
	} {
		_, err := NormalizeOptionIDs(raw)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}
