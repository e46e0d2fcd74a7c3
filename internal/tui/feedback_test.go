package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avellar/dermterm/internal/session"
	"github.com/avellar/dermterm/pkg/client"
	"github.com/avellar/dermterm/pkg/domain"
)

func newTestFeedback(authed bool) feedbackModel {
	sess := session.New()
	if authed {
		sess.Set(domain.User{ID: 1, Name: "Jane", Email: "jane@example.com"}, nil)
	}
	return newFeedbackModel(nil, sess)
}

func feedKeys(m feedbackModel, s string) feedbackModel {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestFeedbackFocusAndTyping(t *testing.T) {
	m := newTestFeedback(true)
	if m.focused {
		t.Fatal("feedback starts unfocused")
	}

	// Typing before focusing goes nowhere.
	m = feedKeys(m, "xy")
	if m.text != "" {
		t.Errorf("text = %q, want empty before focus", m.text)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.focused {
		t.Fatal("enter should focus the editor")
	}
	m = feedKeys(m, "Great tool")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter}) // newline while focused
	m = feedKeys(m, "Thanks")
	if m.text != "Great tool\nThanks" {
		t.Errorf("text = %q", m.text)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.focused {
		t.Error("esc should unfocus the editor")
	}
}

func TestFeedbackSubmitEmptyWarns(t *testing.T) {
	m := newTestFeedback(true)
	m.focused = true
	m.text = "   \n  "

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	note := runNotify(t, cmd)
	if note.sev != sevWarning || !strings.Contains(note.text, "share your experience") {
		t.Errorf("note = %+v", note)
	}
}

func TestFeedbackSubmitRequiresSession(t *testing.T) {
	m := newTestFeedback(false)
	m.focused = true
	m.text = "hello"

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	note := runNotify(t, cmd)
	if note.sev != sevWarning || !strings.Contains(note.text, "log in") {
		t.Errorf("note = %+v", note)
	}
}

func TestFeedbackSuccessClearsDraft(t *testing.T) {
	m := newTestFeedback(true)
	m.focused = true
	m.busy = true
	m.text = "Great tool!"

	m, cmd := m.Update(feedbackSentMsg{})
	if m.busy {
		t.Error("busy clears after the call returns")
	}
	if m.text != "" || m.focused {
		t.Error("a sent draft should clear and unfocus")
	}
	note := runNotify(t, cmd)
	if note.sev != sevSuccess || !strings.Contains(note.text, "Thank you, Jane!") {
		t.Errorf("note = %+v", note)
	}
}

func TestFeedbackFailureKeepsDraft(t *testing.T) {
	m := newTestFeedback(true)
	m.focused = true
	m.busy = true
	m.text = "Great tool!"

	m, cmd := m.Update(feedbackSentMsg{err: &client.HTTPError{StatusCode: 500, Message: "Error saving feedback"}})
	if m.busy {
		t.Error("busy clears on failure too")
	}
	if m.text != "Great tool!" {
		t.Error("the draft must survive a failed submission")
	}
	note := runNotify(t, cmd)
	if note.sev != sevError || note.text != "Error saving feedback" {
		t.Errorf("note = %+v", note)
	}
}

func TestFeedbackIgnoresInputWhileBusy(t *testing.T) {
	m := newTestFeedback(true)
	m.focused = true
	m.busy = true
	m = feedKeys(m, "zzz")
	if m.text != "" {
		t.Errorf("text = %q, want input dropped while busy", m.text)
	}
}

func TestFeedbackCharCount(t *testing.T) {
	m := newTestFeedback(true)
	m.text = "héllo"
	out := m.View(lightTheme())
	if !strings.Contains(out, "5 characters") {
		t.Errorf("view should count runes, got:\n%s", out)
	}
}
