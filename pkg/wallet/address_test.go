package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		candidate string
		wantErr   bool
	}{
		{"valid lowercase", "0xd8da6bf26964af9d7eed9e03e53415d37aa96045", false},
		{"valid uppercase hex", "0xD8DA6BF26964AF9D7EED9E03E53415D37AA96045", false},
		{"valid with surrounding spaces", "  0xd8da6bf26964af9d7eed9e03e53415d37aa96045  ", false},
		{"empty", "", true},
		{"missing prefix", "d8da6bf26964af9d7eed9e03e53415d37aa96045", true},
		{"too short", "0xd8da6bf2", true},
		{"too long", "0xd8da6bf26964af9d7eed9e03e53415d37aa9604512", true},
		{"non-hex characters", "0xd8da6bf26964af9d7eed9e03e53415d37aa9604g", true},
		{"not an address", "not-an-address", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateAddress(tt.candidate)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAddress)
				assert.Empty(t, got)
			} else {
				assert.NoError(t, err)
				assert.Len(t, got, 42)
			}
		})
	}
}

func TestValidateAddress_Idempotent(t *testing.T) {
	normalized, err := ValidateAddress("0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	assert.NoError(t, err)

	again, err := ValidateAddress(normalized)
	assert.NoError(t, err)
	assert.Equal(t, normalized, again)
}

func TestValidateAddress_CaseNormalization(t *testing.T) {
	lower, err := ValidateAddress("0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	assert.NoError(t, err)
	upper, err := ValidateAddress("0xD8DA6BF26964AF9D7EED9E03E53415D37AA96045")
	assert.NoError(t, err)
	assert.Equal(t, lower, upper)
}
