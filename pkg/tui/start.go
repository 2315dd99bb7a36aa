package tui

import (
	"fmt"
	"os"

	"cwallet/pkg/ledger"
	"cwallet/pkg/store"
	"cwallet/pkg/wallet"

	tea "github.com/charmbracelet/bubbletea"
)

// Version is set by Start()
var Version = "dev"

func Start(o *wallet.Orchestrator, l *ledger.Ledger, profiles *store.ProfileStore, version string) {
	Version = version
	p := tea.NewProgram(
		initialModel(o, l, profiles),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
