package dto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQueryNormalize(t *testing.T) {
	tests := []struct {
		name       string
		in         PageQuery
		def        int
		wantOffset int
		wantLimit  int
	}{
		{"defaults", PageQuery{}, 20, 0, 20},
		{"second page", PageQuery{Page: 2, Limit: 10}, 20, 10, 10},
		{"third page default limit", PageQuery{Page: 3}, 50, 100, 50},
		{"clamped limit", PageQuery{Page: 1, Limit: 500}, 20, 0, MaxPageLimit},
		{"clamped page", PageQuery{Page: math.MaxInt, Limit: 100}, 20, (MaxPage - 1) * MaxPageLimit, MaxPageLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			assert.Equal(t, tt.wantOffset, q.Normalize(tt.def))
			assert.Equal(t, tt.wantLimit, q.Limit)
			assert.LessOrEqual(t, q.Page, MaxPage)
		})
	}
}
