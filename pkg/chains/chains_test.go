package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		chainID int64
		want    string
	}{
		{1, "Ethereum"},
		{137, "Polygon"},
		{56, "BNB Chain"},
		{42161, "Arbitrum"},
		{10, "Optimism"},
		{8453, "Chain 8453"},
		{0, "Chain 0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Name(tt.chainID))
	}
}

func TestAccentColor(t *testing.T) {
	assert.Equal(t, "#627EEA", AccentColor(1))
	assert.Equal(t, "#8247E5", AccentColor(137))
	assert.Equal(t, DefaultAccent, AccentColor(8453))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(1))
	assert.True(t, Known(42161))
	assert.False(t, Known(8453))
}
