package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avellar/dermterm/internal/session"
	"github.com/avellar/dermterm/pkg/client"
)

// feedbackSentMsg carries the feedback submission outcome.
type feedbackSentMsg struct {
	err error
}

type feedbackModel struct {
	client  *client.Client
	session *session.Store
	text    string
	focused bool
	busy    bool
}

func newFeedbackModel(c *client.Client, sess *session.Store) feedbackModel {
	return feedbackModel{client: c, session: sess}
}

func (m feedbackModel) Update(msg tea.Msg) (feedbackModel, tea.Cmd) {
	switch msg := msg.(type) {
	case feedbackSentMsg:
		m.busy = false
		if msg.err != nil {
			return m, notifyCmd(client.Reason(msg.err, "Failed to submit feedback. Please try again."), sevError)
		}
		m.text = ""
		m.focused = false
		name := ""
		if u := m.session.User(); u != nil {
			name = u.Name
		}
		return m, notifyCmd(fmt.Sprintf("Thank you, %s! Your feedback has been submitted.", name), sevSuccess)

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if !m.focused {
			if msg.String() == "enter" || msg.String() == "i" {
				m.focused = true
			}
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.focused = false
		case "ctrl+s":
			return m.submit()
		case "enter":
			if utf8.RuneCountInString(m.text) < maxInputLen {
				m.text += "\n"
			}
		default:
			m.text = editRune(m.text, msg.String())
		}
	}
	return m, nil
}

func (m feedbackModel) submit() (feedbackModel, tea.Cmd) {
	if !m.session.Active() {
		return m, notifyCmd("Please log in to submit feedback", sevWarning)
	}
	text := strings.TrimSpace(m.text)
	if text == "" {
		return m, notifyCmd("Please share your experience to help us improve", sevWarning)
	}
	m.busy = true
	c := m.client
	return m, func() tea.Msg {
		return feedbackSentMsg{err: c.SendFeedback(context.Background(), text)}
	}
}

// reset clears the draft. Used on logout.
func (m feedbackModel) reset() feedbackModel {
	return newFeedbackModel(m.client, m.session)
}

func (m feedbackModel) View(th theme) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("   " + th.title.Render("Feedback") + "\n\n")
	sb.WriteString("   " + th.dim.Render("Tell us how the analysis worked for you.") + "\n\n")

	if m.text == "" && !m.focused {
		sb.WriteString("   " + th.placeholder.Render("press enter to write feedback") + "\n")
	} else {
		for _, line := range strings.Split(m.text, "\n") {
			sb.WriteString("   " + th.normal.Render(line))
			sb.WriteString("\n")
		}
		if m.focused && !m.busy {
			sb.WriteString("   " + th.accent.Render("█") + "\n")
		}
	}

	sb.WriteString("\n   " + th.dim.Render(fmt.Sprintf("%d characters", utf8.RuneCountInString(m.text))) + "\n")
	if m.busy {
		sb.WriteString("   " + th.dim.Render("Submitting...") + "\n")
	} else if m.focused {
		sb.WriteString("   " + th.placeholder.Render("ctrl+s to submit, esc to stop writing") + "\n")
	}
	return sb.String()
}
