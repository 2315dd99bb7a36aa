package tui

import (
	"time"

	"cwallet/pkg/ledger"
	"cwallet/pkg/models"
	"cwallet/pkg/store"
	"cwallet/pkg/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Messages ---

type clearStatusMsg struct{}

type connectResultMsg struct {
	outcome wallet.ConnectOutcome
	err     error
}

type submitResultMsg struct{ err error }
type refreshDoneMsg struct{ err error }
type createSplitResultMsg struct{ err error }
type markPaidResultMsg struct{ err error }

// --- Model ---

type inputMode int

const (
	modeNormal inputMode = iota
	modeAddressEntry
	modeNewSplit
	modeMembers
)

type model struct {
	orchestrator *wallet.Orchestrator
	ledger       *ledger.Ledger
	profiles     *store.ProfileStore

	session models.Session
	profile models.Profile
	splits  []models.SplitPayment

	width   int
	height  int
	loading bool
	spinner spinner.Model

	mode          inputMode
	addressInput  textinput.Model
	splitInputs   []textinput.Model // title, amount
	memberInputs  []textinput.Model // name, address of pending member
	pendingSplit  pendingSplit
	focusedInput  int
	statusMessage string
	offerInstall  bool

	splitIdx       int
	memberIdx      int
	selectingPayer bool

	balanceHistory []float64
	showGraph      bool
	lastUpdate     time.Time

	sessionSub wallet.Subscriber
	splitSub   wallet.Subscriber
}

type pendingSplit struct {
	title   string
	amount  float64
	members []ledger.MemberInput
}

func initialModel(o *wallet.Orchestrator, l *ledger.Ledger, profiles *store.ProfileStore) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ai := textinput.New()
	ai.Placeholder = "0x..."
	ai.Width = 46

	sis := make([]textinput.Model, 2)
	for i := range sis {
		sis[i] = textinput.New()
		sis[i].Width = 30
	}
	sis[0].Placeholder = "Title"
	sis[1].Placeholder = "Amount (ETH)"

	mis := make([]textinput.Model, 2)
	for i := range mis {
		mis[i] = textinput.New()
		mis[i].Width = 46
	}
	mis[0].Placeholder = "Name"
	mis[1].Placeholder = "0x..."

	profile, _ := profiles.Load()

	return model{
		orchestrator: o,
		ledger:       l,
		profiles:     profiles,
		session:      o.Session(),
		profile:      profile,
		splits:       l.ActiveSplits(),
		spinner:      s,
		addressInput: ai,
		splitInputs:  sis,
		memberInputs: mis,
		sessionSub:   o.Subscribe(),
		splitSub:     l.Subscribe(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, listenForEvents(m.sessionSub), listenForEvents(m.splitSub))
}

func listenForEvents(sub wallet.Subscriber) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub
		if !ok {
			return nil
		}
		return event
	}
}
