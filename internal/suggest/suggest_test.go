package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosest(t *testing.T) {
	keys := []string{"help", "exit", "hello", "sum", "secret"}

	tests := []struct {
		name   string
		key    string
		keys   []string
		want   string
		wantOK bool
	}{
		{"missing letter", "hlp", keys, "help", true},
		{"transposed letters", "hepl", keys, "help", true},
		{"case insensitive", "EXIT", keys, "exit", true},
		{"prefix", "su", keys, "sum", true},
		{"typo in longer key", "secert", keys, "secret", true},
		{"nothing close", "zzzz", keys, "", false},
		{"no candidates", "help", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Closest(tt.key, tt.keys)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRank(t *testing.T) {
	keys := []string{"hello", "help", "help", "exit"}

	got := Rank("hel", keys, 0)
	assert.Equal(t, []string{"help", "hello"}, got)

	assert.Equal(t, []string{"help"}, Rank("hel", keys, 1))
	assert.Empty(t, Rank("qqqqq", keys, 0))

	// input is not reordered
	assert.Equal(t, []string{"hello", "help", "help", "exit"}, keys)
}
