package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQueryNormalize(t *testing.T) {
	cases := []struct {
		in        ListQuery
		page, lim int
	}{
		{ListQuery{Page: 0, Limit: 0}, 1, 10},
		{ListQuery{Page: -3, Limit: -1}, 1, 10},
		{ListQuery{Page: 2, Limit: 25}, 2, 25},
		{ListQuery{Page: 1, Limit: 500}, 1, 100},
	}
	for _, tc := range cases {
		tc.in.Normalize()
		assert.Equal(t, tc.page, tc.in.Page)
		assert.Equal(t, tc.lim, tc.in.Limit)
	}
}

func TestListQueryOffset(t *testing.T) {
	q := ListQuery{Page: 3, Limit: 20}
	assert.Equal(t, 40, q.Offset())
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(ListQuery{Page: 2, Limit: 10}, 25)
	assert.Equal(t, int64(25), meta.Total)
	assert.Equal(t, int64(3), meta.Pages)

	empty := NewPageMeta(ListQuery{Page: 1, Limit: 10}, 0)
	assert.Equal(t, int64(1), empty.Pages)
}
