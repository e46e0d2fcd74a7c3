package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/avellar/dermterm/internal/session"
	"github.com/avellar/dermterm/pkg/domain"
)

func newTestDashboard(history []domain.AnalysisRecord) dashboardModel {
	sess := session.New()
	sess.Set(domain.User{ID: 1, Name: "Jane", Email: "jane@example.com", JoinDate: "2025-01-10"}, history)
	return newDashboardModel(nil, sess)
}

func TestDashboardEmptyState(t *testing.T) {
	m := newTestDashboard(nil)
	out := m.View(lightTheme())
	if !strings.Contains(out, "No analyses yet") {
		t.Error("empty history should show the getting-started hint")
	}
	if !strings.Contains(out, "Jane") || !strings.Contains(out, "jane@example.com") {
		t.Error("profile fields missing")
	}
	if !strings.Contains(out, "Jan 10, 2025") {
		t.Error("join date should render as a calendar date")
	}
}

func TestDashboardShowsAtMostFiveRecords(t *testing.T) {
	var history []domain.AnalysisRecord
	for i := 0; i < 8; i++ {
		history = append(history, domain.AnalysisRecord{
			Condition:  fmt.Sprintf("Condition %d", i),
			Confidence: 0.8,
			Date:       "2025-06-15 14:30:00",
		})
	}
	m := newTestDashboard(history)
	out := m.View(lightTheme())

	if got := strings.Count(out, "confidence)"); got != historyDisplayMax {
		t.Errorf("rendered %d history rows, want %d", got, historyDisplayMax)
	}
	if !strings.Contains(out, "Condition 0") {
		t.Error("the most recent record should render")
	}
	if strings.Contains(out, "Condition 5") {
		t.Error("records past the cap must not render")
	}
}

func TestDashboardStatsRendering(t *testing.T) {
	m := newTestDashboard(nil)

	// Fetch failure: figures are simply absent.
	m, _ = m.Update(statsLoadedMsg{err: errors.New("connection refused")})
	if m.stats != nil {
		t.Error("failed stats fetch should leave no figures")
	}
	if strings.Contains(m.View(lightTheme()), "avg confidence") {
		t.Error("stats line must be absent after a failed fetch")
	}

	m, _ = m.Update(statsLoadedMsg{stats: &domain.DashboardStats{TotalAnalyses: 12, AvgConfidence: 86.5}})
	out := m.View(lightTheme())
	if !strings.Contains(out, "12") || !strings.Contains(out, "86.5%") {
		t.Errorf("stats line missing figures:\n%s", out)
	}
}

func TestDashboardReset(t *testing.T) {
	m := newTestDashboard(nil)
	m, _ = m.Update(statsLoadedMsg{stats: &domain.DashboardStats{TotalAnalyses: 3, AvgConfidence: 70}})
	m = m.reset()
	if m.stats != nil {
		t.Error("reset should drop fetched stats")
	}
}
