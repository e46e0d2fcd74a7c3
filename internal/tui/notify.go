package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type severity int

const (
	sevInfo severity = iota
	sevSuccess
	sevWarning
	sevError
)

// notifyDuration is how long a notification stays visible before auto-hide.
const notifyDuration = 5 * time.Second

// notifyMsg asks the root model to show a transient notification. Sub-models
// emit it as a command instead of touching the notifier directly.
type notifyMsg struct {
	text string
	sev  severity
}

func notifyCmd(text string, sev severity) tea.Cmd {
	return func() tea.Msg {
		return notifyMsg{text: text, sev: sev}
	}
}

// notifyHideMsg is the scheduled auto-hide. It carries the generation it was
// scheduled for; a stale tick from an earlier notification is a no-op, so a
// newer message can never be hidden early by an old timer.
type notifyHideMsg struct {
	gen int
}

// notifier presents one transient message at a time; the last call wins.
type notifier struct {
	text    string
	sev     severity
	visible bool
	gen     int
}

// show replaces the current notification and schedules its auto-hide.
func (n *notifier) show(text string, sev severity) tea.Cmd {
	n.text = text
	n.sev = sev
	n.visible = true
	n.gen++
	gen := n.gen
	return tea.Tick(notifyDuration, func(time.Time) tea.Msg {
		return notifyHideMsg{gen: gen}
	})
}

// handleHide processes a scheduled auto-hide, ignoring stale generations.
func (n *notifier) handleHide(msg notifyHideMsg) {
	if msg.gen == n.gen {
		n.visible = false
	}
}

// dismiss hides the notification immediately. Any pending auto-hide tick
// becomes a harmless no-op.
func (n *notifier) dismiss() {
	n.visible = false
}

func (sev severity) icon() string {
	switch sev {
	case sevSuccess:
		return "✓"
	case sevWarning:
		return "▲"
	case sevError:
		return "✗"
	default:
		return "ℹ"
	}
}

// view renders the notification line, or an empty line when hidden.
func (n *notifier) view(width int, th theme) string {
	if !n.visible {
		return ""
	}
	style := th.severityStyle(n.sev)
	text := truncStr(n.text, max(width-5, 10))
	return " " + style.Render(n.sev.icon()+" "+text)
}
