package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avellar/dermterm/internal/session"
	"github.com/avellar/dermterm/pkg/client"
	"github.com/avellar/dermterm/pkg/domain"
)

// historyDisplayMax caps how many history rows the dashboard shows.
const historyDisplayMax = 5

// statsLoadedMsg carries the aggregate stats fetch outcome. Failures are
// skipped silently; the dashboard renders without the figures.
type statsLoadedMsg struct {
	stats *domain.DashboardStats
	err   error
}

type dashboardModel struct {
	client  *client.Client
	session *session.Store
	stats   *domain.DashboardStats
	width   int
	height  int
}

func newDashboardModel(c *client.Client, sess *session.Store) dashboardModel {
	return dashboardModel{client: c, session: sess}
}

// loadStats fetches aggregate figures from the dashboard endpoint.
func (m dashboardModel) loadStats() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		stats, err := c.DashboardStats(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case statsLoadedMsg:
		if msg.err == nil {
			m.stats = msg.stats
		}
	}
	return m, nil
}

// reset drops fetched stats. Used on logout.
func (m dashboardModel) reset() dashboardModel {
	return newDashboardModel(m.client, m.session)
}

func (m dashboardModel) View(th theme) string {
	user := m.session.User()
	if user == nil {
		return "\n   " + th.dim.Render("no active session")
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("   " + th.title.Render("Your Dashboard") + "\n\n")

	// Profile
	sb.WriteString("   " + th.fieldLabel.Render("Name:   ") + th.normal.Render(user.Name) + "\n")
	sb.WriteString("   " + th.fieldLabel.Render("Email:  ") + th.normal.Render(user.Email) + "\n")
	if user.JoinDate != "" {
		sb.WriteString("   " + th.fieldLabel.Render("Joined: ") + th.normal.Render(formatDate(user.JoinDate)) + "\n")
	}
	sb.WriteString("\n")

	// Aggregate stats, when the fetch succeeded
	if m.stats != nil {
		sb.WriteString("   " + th.accent.Render(fmt.Sprintf("%d", m.stats.TotalAnalyses)) +
			th.dim.Render(" analyses") + "   " +
			th.accent.Render(fmt.Sprintf("%.1f%%", m.stats.AvgConfidence)) +
			th.dim.Render(" avg confidence") + "\n\n")
	}

	// Recent history
	sb.WriteString("   " + th.selected.Render("Recent analyses") + "\n")
	history := m.session.History()
	if len(history) == 0 {
		sb.WriteString("   " + th.dim.Render("No analyses yet. Upload your first skin image to get started!") + "\n")
		return sb.String()
	}
	shown := history
	if len(shown) > historyDisplayMax {
		shown = shown[:historyDisplayMax]
	}
	for _, rec := range shown {
		when := formatDateTime(rec.Date)
		if t, ok := rec.When(); ok {
			when += "  " + sinceShort(t)
		}
		sb.WriteString("   " + th.dim.Render(when) + "\n")
		sb.WriteString("     " + th.normal.Render(rec.Condition) + " " +
			th.dim.Render("("+percent(rec.Confidence)+" confidence)") + "\n")
	}
	return sb.String()
}
