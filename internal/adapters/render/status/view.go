package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now time.Time
}

func renderView(session domain.Session, network domain.ReachabilityStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Stake & Steal"),
		s.section.Render(renderSession(session, s)),
		s.section.Render(renderNetwork(network, opts, s)),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSession(session domain.Session, s styles) string {
	if !session.Active() {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.header.Render("wallet"),
			s.empty.Render("not connected"),
		)
	}

	parts := []string{
		s.header.Render("wallet"),
		s.identity.Render(shortIdentity(session.Identity)),
		s.detail.Render(fmt.Sprintf("backend: %s", session.Kind)),
	}

	if len(session.AccountHandles) > 0 {
		parts = append(parts, s.detail.Render(fmt.Sprintf("accounts: %d", len(session.AccountHandles))))
	}
	if session.Balance != "" {
		parts = append(parts, s.detail.Render(fmt.Sprintf("balance: %s (advisory)", session.Balance)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderNetwork(network domain.ReachabilityStatus, opts RenderOptions, s styles) string {
	header := s.header.Render("network")

	if !network.Connected {
		line := s.warning.Render("mock mode")
		if network.Error != "" {
			line += " " + s.netMeta.Render(fmt.Sprintf("(%s)", network.Error))
		}
		return lipgloss.JoinVertical(lipgloss.Left, header, line)
	}

	line := s.good.Render(fmt.Sprintf("connected: %s", network.Endpoint.Name)) +
		" " + s.netMeta.Render(fmt.Sprintf("[%s, %dms]", network.NetworkKind, network.Latency.Milliseconds()))

	if !opts.Now.IsZero() && !network.LastCheckedAt.IsZero() {
		line += " " + s.netMeta.Render(fmt.Sprintf("checked %s ago", formatAge(opts.Now.Sub(network.LastCheckedAt))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, line)
}

func shortIdentity(identity string) string {
	const head, tail = 13, 6
	if len(identity) <= head+tail+1 {
		return identity
	}
	return identity[:head] + "…" + identity[len(identity)-tail:]
}

func formatAge(age time.Duration) string {
	if age < 0 {
		age = 0
	}
	switch {
	case age < time.Minute:
		return fmt.Sprintf("%ds", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm", int(age.Minutes()))
	default:
		return strings.TrimSuffix(age.Round(time.Minute).String(), "0s")
	}
}
