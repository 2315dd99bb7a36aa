// Package chains maps numeric chain IDs to display names and accent colors.
// Lookups never fail; unknown chains degrade to a generic label and a neutral
// color.
package chains

import "fmt"

type chainInfo struct {
	name   string
	accent string
}

var registry = map[int64]chainInfo{
	1:     {name: "Ethereum", accent: "#627EEA"},
	137:   {name: "Polygon", accent: "#8247E5"},
	56:    {name: "BNB Chain", accent: "#F0B90B"},
	42161: {name: "Arbitrum", accent: "#28A0F0"},
	10:    {name: "Optimism", accent: "#FF0420"},
}

// DefaultAccent is used for chains the registry does not know about.
const DefaultAccent = "#888888"

// Name returns the display name for a chain ID, or "Chain {id}" when the
// chain is unknown.
func Name(chainID int64) string {
	if info, ok := registry[chainID]; ok {
		return info.name
	}
	return fmt.Sprintf("Chain %d", chainID)
}

// AccentColor returns the hex accent color associated with a chain ID.
func AccentColor(chainID int64) string {
	if info, ok := registry[chainID]; ok {
		return info.accent
	}
	return DefaultAccent
}

// Known reports whether the chain ID is in the built-in table.
func Known(chainID int64) bool {
	_, ok := registry[chainID]
	return ok
}
