package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name       string
		offset     int
		height     int
		want       []string
		wantOffset int
	}{
		{"first page", 0, 2, []string{"a", "b"}, 0},
		{"middle", 2, 2, []string{"c", "d"}, 2},
		{"clamped to last page", 10, 2, []string{"d", "e"}, 3},
		{"negative offset", -3, 2, []string{"a", "b"}, 0},
		{"taller than content", 1, 10, lines, 0},
		{"no room", 0, 0, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, off := Window(lines, tt.offset, tt.height)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOffset, off)
		})
	}
}

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(79, 40))
	assert.True(t, IsTooSmall(120, 23))
	assert.False(t, IsTooSmall(80, 24))
}
