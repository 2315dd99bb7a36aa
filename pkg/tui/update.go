package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"cwallet/pkg/ledger"
	"cwallet/pkg/models"
	"cwallet/pkg/wallet"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case clearStatusMsg:
		m.statusMessage = ""

	case wallet.Event:
		switch msg.Type {
		case wallet.EventStatusChanged, wallet.EventBalanceUpdated:
			if session, ok := msg.Data.(models.Session); ok {
				m.session = session
				m.lastUpdate = time.Now()
				if msg.Type == wallet.EventBalanceUpdated {
					if v, err := strconv.ParseFloat(session.Balance, 64); err == nil {
						m.balanceHistory = append(m.balanceHistory, v)
						if len(m.balanceHistory) > 120 {
							m.balanceHistory = m.balanceHistory[len(m.balanceHistory)-120:]
						}
					}
				}
			}
			// Re-arm the session listener.
			cmds = append(cmds, listenForEvents(m.sessionSub))
		case wallet.EventSplitCreated, wallet.EventSplitUpdated:
			m.splits = m.ledger.ActiveSplits()
			if m.splitIdx >= len(m.splits) {
				m.splitIdx = 0
			}
			cmds = append(cmds, listenForEvents(m.splitSub))
		default:
			cmds = append(cmds, listenForEvents(m.sessionSub))
		}

	case connectResultMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMessage = msg.err.Error()
			cmds = append(cmds, clearStatusAfter(3*time.Second))
			break
		}
		m.session = m.orchestrator.Session()
		m.mode = modeAddressEntry
		m.addressInput.Focus()
		switch msg.outcome {
		case wallet.WalletAppOpened:
			m.statusMessage = "Wallet app opened. Paste your address when you're back."
		case wallet.WalletAppNotFound:
			m.offerInstall = true
			m.statusMessage = "No wallet app found. Press i to open the install page, or paste an address."
		}

	case submitResultMsg:
		m.loading = false
		if msg.err != nil {
			// Invalid input re-prompts in place.
			m.statusMessage = msg.err.Error()
			cmds = append(cmds, clearStatusAfter(3*time.Second))
			break
		}
		m.mode = modeNormal
		m.offerInstall = false
		m.addressInput.Blur()
		m.addressInput.SetValue("")
		m.session = m.orchestrator.Session()
		m.statusMessage = "Connected."
		cmds = append(cmds, clearStatusAfter(2*time.Second))

	case refreshDoneMsg:
		m.loading = false
		m.session = m.orchestrator.Session()

	case createSplitResultMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMessage = msg.err.Error()
			cmds = append(cmds, clearStatusAfter(4*time.Second))
			break
		}
		m.mode = modeNormal
		m.statusMessage = "Split created."
		cmds = append(cmds, clearStatusAfter(2*time.Second))

	case markPaidResultMsg:
		m.loading = false
		m.selectingPayer = false
		if msg.err != nil {
			m.statusMessage = msg.err.Error()
			cmds = append(cmds, clearStatusAfter(3*time.Second))
		}

	case tea.KeyMsg:
		switch m.mode {
		case modeAddressEntry:
			return m.updateAddressEntry(msg)
		case modeNewSplit:
			return m.updateNewSplit(msg)
		case modeMembers:
			return m.updateMemberEntry(msg)
		}
		return m.updateNormal(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "c":
		if m.session.Status == models.StatusDisconnected {
			m.loading = true
			o := m.orchestrator
			return m, func() tea.Msg {
				outcome, err := o.Connect(context.Background())
				return connectResultMsg{outcome: outcome, err: err}
			}
		}

	case "i":
		if m.offerInstall {
			m.orchestrator.OpenInstallPage()
			m.statusMessage = "Opened install page."
			return m, clearStatusAfter(2 * time.Second)
		}

	case "d":
		if m.session.Connected() {
			o := m.orchestrator
			return m, func() tea.Msg {
				err := o.Disconnect()
				return refreshDoneMsg{err: err}
			}
		}

	case "r":
		if m.session.Connected() {
			m.loading = true
			o := m.orchestrator
			return m, func() tea.Msg {
				err := o.Refresh(context.Background())
				return refreshDoneMsg{err: err}
			}
		}

	case "y":
		if m.session.Connected() {
			if err := clipboard.WriteAll(m.session.AccountID); err == nil {
				m.statusMessage = "Address copied to clipboard."
			} else {
				m.statusMessage = "Clipboard unavailable."
			}
			return m, clearStatusAfter(2 * time.Second)
		}

	case "g":
		m.showGraph = !m.showGraph

	case "n":
		if m.session.Connected() {
			m.mode = modeNewSplit
			m.pendingSplit = pendingSplit{}
			m.focusedInput = 0
			for i := range m.splitInputs {
				m.splitInputs[i].SetValue("")
				m.splitInputs[i].Blur()
			}
			m.splitInputs[0].Focus()
		}

	case "j", "down":
		if m.selectingPayer {
			if split, ok := m.selectedSplit(); ok && m.memberIdx < len(split.Members)-1 {
				m.memberIdx++
			}
		} else if m.splitIdx < len(m.splits)-1 {
			m.splitIdx++
		}

	case "k", "up":
		if m.selectingPayer {
			if m.memberIdx > 0 {
				m.memberIdx--
			}
		} else if m.splitIdx > 0 {
			m.splitIdx--
		}

	case "enter":
		if split, ok := m.selectedSplit(); ok {
			if !m.selectingPayer {
				m.selectingPayer = true
				m.memberIdx = 0
			} else {
				l := m.ledger
				id, idx := split.ID, m.memberIdx
				m.loading = true
				return m, func() tea.Msg {
					_, err := l.MarkPaid(id, idx)
					return markPaidResultMsg{err: err}
				}
			}
		}

	case "esc":
		m.selectingPayer = false
	}

	return m, nil
}

func (m model) updateAddressEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.addressInput.Blur()
		return m, nil
	case "enter":
		candidate := m.addressInput.Value()
		m.loading = true
		o := m.orchestrator
		return m, func() tea.Msg {
			return submitResultMsg{err: o.SubmitAddress(context.Background(), candidate)}
		}
	}
	var cmd tea.Cmd
	m.addressInput, cmd = m.addressInput.Update(msg)
	return m, cmd
}

func (m model) updateNewSplit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		return m, nil
	case "tab", "shift+tab":
		m.splitInputs[m.focusedInput].Blur()
		m.focusedInput = (m.focusedInput + 1) % len(m.splitInputs)
		m.splitInputs[m.focusedInput].Focus()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.splitInputs[0].Value())
		amount, err := strconv.ParseFloat(strings.TrimSpace(m.splitInputs[1].Value()), 64)
		if title == "" || err != nil || amount <= 0 {
			m.statusMessage = "Enter a title and a positive amount."
			return m, clearStatusAfter(3 * time.Second)
		}
		m.pendingSplit.title = title
		m.pendingSplit.amount = amount
		m.mode = modeMembers
		m.focusedInput = 0
		for i := range m.memberInputs {
			m.memberInputs[i].SetValue("")
			m.memberInputs[i].Blur()
		}
		m.memberInputs[0].Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.splitInputs[m.focusedInput], cmd = m.splitInputs[m.focusedInput].Update(msg)
	return m, cmd
}

func (m model) updateMemberEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		return m, nil
	case "tab", "shift+tab":
		m.memberInputs[m.focusedInput].Blur()
		m.focusedInput = (m.focusedInput + 1) % len(m.memberInputs)
		m.memberInputs[m.focusedInput].Focus()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.memberInputs[0].Value())
		addr := strings.TrimSpace(m.memberInputs[1].Value())
		if name == "" || addr == "" {
			m.statusMessage = "Enter both a name and an address."
			return m, clearStatusAfter(3 * time.Second)
		}
		m.pendingSplit.members = append(m.pendingSplit.members, ledger.MemberInput{DisplayName: name, AccountID: addr})
		m.memberInputs[0].SetValue("")
		m.memberInputs[1].SetValue("")
		m.memberInputs[1].Blur()
		m.focusedInput = 0
		m.memberInputs[0].Focus()
		return m, nil
	case "ctrl+d":
		if len(m.pendingSplit.members) == 0 {
			m.statusMessage = "Add at least one member."
			return m, clearStatusAfter(3 * time.Second)
		}
		m.loading = true
		l := m.ledger
		ps := m.pendingSplit
		return m, func() tea.Msg {
			_, err := l.Create(ps.title, ps.amount, ps.members)
			return createSplitResultMsg{err: err}
		}
	}
	var cmd tea.Cmd
	m.memberInputs[m.focusedInput], cmd = m.memberInputs[m.focusedInput].Update(msg)
	return m, cmd
}

func (m model) selectedSplit() (models.SplitPayment, bool) {
	if m.splitIdx < 0 || m.splitIdx >= len(m.splits) {
		return models.SplitPayment{}, false
	}
	return m.splits[m.splitIdx], true
}
