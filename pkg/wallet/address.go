package wallet

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidAddress is returned when a pasted account identifier is not a
// 0x-prefixed 20-byte hex address.
var ErrInvalidAddress = errors.New("invalid wallet address")

// ValidateAddress checks a candidate account identifier and returns its
// canonical EIP-55 checksummed form. It is pure: no side effects, and
// validating an already-normalized address returns it unchanged.
func ValidateAddress(candidate string) (string, error) {
	candidate = strings.TrimSpace(candidate)
	if !strings.HasPrefix(candidate, "0x") && !strings.HasPrefix(candidate, "0X") {
		return "", ErrInvalidAddress
	}
	if !common.IsHexAddress(candidate) {
		return "", ErrInvalidAddress
	}
	return common.HexToAddress(candidate).Hex(), nil
}
