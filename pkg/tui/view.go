package tui

import (
	"fmt"
	"strings"

	"cwallet/pkg/chains"
	"cwallet/pkg/ledger"
	"cwallet/pkg/models"
	"cwallet/pkg/utils"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("cwallet %s", Version)))
	b.WriteString("  " + subtleStyle.Render(m.profile.DisplayName))
	b.WriteString("\n\n")

	b.WriteString(m.sessionPanel())
	b.WriteString("\n")

	switch m.mode {
	case modeAddressEntry:
		b.WriteString(m.addressEntryPanel())
	case modeNewSplit:
		b.WriteString(m.newSplitPanel())
	case modeMembers:
		b.WriteString(m.memberPanel())
	default:
		if m.showGraph {
			b.WriteString(m.graphPanel())
		} else {
			b.WriteString(m.splitsPanel())
		}
	}

	if m.statusMessage != "" {
		style := infoStyle
		if strings.Contains(m.statusMessage, "invalid") || strings.Contains(m.statusMessage, "failed") {
			style = errStyle
		}
		b.WriteString("\n" + style.Render(m.statusMessage))
	}
	if m.loading {
		b.WriteString("\n" + m.spinner.View() + subtleStyle.Render(" working..."))
	}

	b.WriteString("\n\n" + subtleStyle.Render(m.helpLine()))
	return b.String()
}

func (m model) sessionPanel() string {
	var lines []string
	switch m.session.Status {
	case models.StatusDisconnected:
		lines = append(lines, "Not connected.", subtleStyle.Render("Press c to connect a wallet."))
	case models.StatusConnecting:
		lines = append(lines, "Connecting...")
	case models.StatusAwaitingEntry:
		lines = append(lines, "Waiting for your wallet address.")
	case models.StatusConnected:
		accent := chains.AccentColor(m.session.ChainID)
		lines = append(lines,
			fmt.Sprintf("%s  %s", utils.TruncateAddress(m.session.AccountID), chainStyle(accent).Render(chains.Name(m.session.ChainID))),
			fmt.Sprintf("%s ETH", selectedStyle.Render(m.session.Balance)),
		)
		if !m.lastUpdate.IsZero() {
			lines = append(lines, subtleStyle.Render("updated "+m.lastUpdate.Format("15:04:05")))
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m model) addressEntryPanel() string {
	return boxStyle.Render(
		"Paste your wallet address:\n" + m.addressInput.View() +
			"\n" + subtleStyle.Render("enter: submit  esc: cancel"),
	)
}

func (m model) newSplitPanel() string {
	return boxStyle.Render(
		"New split payment\n" +
			m.splitInputs[0].View() + "\n" +
			m.splitInputs[1].View() + "\n" +
			subtleStyle.Render("tab: next field  enter: add members  esc: cancel"),
	)
}

func (m model) memberPanel() string {
	var added []string
	for _, member := range m.pendingSplit.members {
		added = append(added, fmt.Sprintf("  %s  %s", member.DisplayName, utils.TruncateAddress(member.AccountID)))
	}
	body := fmt.Sprintf("Members for %q (%s ETH)\n", m.pendingSplit.title, utils.FormatAmount(m.pendingSplit.amount))
	if len(added) > 0 {
		body += strings.Join(added, "\n") + "\n"
	}
	body += m.memberInputs[0].View() + "\n" + m.memberInputs[1].View() + "\n" +
		subtleStyle.Render("enter: add member  ctrl+d: create split  esc: cancel")
	return boxStyle.Render(body)
}

func (m model) splitsPanel() string {
	if len(m.splits) == 0 {
		return boxStyle.Render("No pending splits.\n" + subtleStyle.Render("Press n to create one."))
	}

	var rows []string
	for i, split := range m.splits {
		cursor := "  "
		if i == m.splitIdx {
			cursor = selectedStyle.Render("> ")
		}
		share := utils.FormatAmount(ledger.ShareOf(split))
		row := fmt.Sprintf("%s%s  %s ETH  (%s each)  %d/%d paid",
			cursor, split.Title, utils.FormatAmount(split.TotalAmount), share,
			split.PaidCount(), len(split.Members))
		if i == m.splitIdx {
			row = selectedStyle.Render(row)
		}
		rows = append(rows, row)

		if i == m.splitIdx && m.selectingPayer {
			for j, member := range split.Members {
				mark := unpaidStyle.Render("unpaid")
				if member.HasPaid {
					mark = paidStyle.Render("paid")
				}
				memberCursor := "    "
				if j == m.memberIdx {
					memberCursor = selectedStyle.Render("  > ")
				}
				rows = append(rows, fmt.Sprintf("%s%s  %s  %s",
					memberCursor, member.DisplayName, utils.TruncateAddress(member.AccountID), mark))
			}
		}
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m model) graphPanel() string {
	if len(m.balanceHistory) < 2 {
		return boxStyle.Render("Not enough balance samples yet.")
	}
	graph := asciigraph.Plot(m.balanceHistory,
		asciigraph.Height(8),
		asciigraph.Caption("balance (ETH)"),
	)
	return boxStyle.Render(graph)
}

func (m model) helpLine() string {
	switch {
	case m.mode != modeNormal:
		return "esc: back"
	case m.session.Connected() && m.selectingPayer:
		return "j/k: member  enter: mark paid  esc: back"
	case m.session.Connected():
		return "r: refresh  n: new split  enter: settle  y: copy address  g: graph  d: disconnect  q: quit"
	default:
		return "c: connect  q: quit"
	}
}
