package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avellar/dermterm/internal/config"
	"github.com/avellar/dermterm/internal/session"
	"github.com/avellar/dermterm/pkg/client"
)

// section is one of the mutually exclusive top-level views. While no session
// is active the only permissible visible section is sectionAuth.
type section int

const (
	sectionAuth section = iota
	sectionHome
	sectionAbout
	sectionFeedback
	sectionDashboard
)

func (s section) title() string {
	switch s {
	case sectionHome:
		return "Analysis"
	case sectionAbout:
		return "About"
	case sectionFeedback:
		return "Feedback"
	case sectionDashboard:
		return "Dashboard"
	default:
		return "Sign in"
	}
}

// swipeOrder is the fixed cyclic order horizontal gestures move through.
var swipeOrder = []section{sectionHome, sectionDashboard, sectionAbout, sectionFeedback}

const (
	// Two-phase transition timing: the exit animation completes before the
	// target section is shown, then the enter animation starts.
	sectionExitDuration = 400 * time.Millisecond
	sectionEnterDelay   = 50 * time.Millisecond

	// swipeThreshold is the horizontal drag distance, in cells, that counts
	// as a swipe.
	swipeThreshold = 8
)

type transitionPhase int

const (
	phaseIdle transitionPhase = iota
	phaseExiting
	phaseEntering
)

// sectionHiddenMsg fires when the exit phase of transition seq completes.
// A seq older than the current transition was superseded and is dropped.
type sectionHiddenMsg struct {
	seq    int
	target section
}

// sectionShownMsg fires when the enter phase of transition seq completes.
type sectionShownMsg struct {
	seq int
}

// profileLoadedMsg carries the outcome of the session probe / profile
// refresh. Failures are silent except for the startup welcome hint.
type profileLoadedMsg struct {
	resp    *client.ProfileResponse
	err     error
	startup bool
}

// loggedOutMsg carries the best-effort remote logout outcome. Local
// teardown happens regardless.
type loggedOutMsg struct {
	err error
}

// App is the root Bubbletea model.
type App struct {
	client  *client.Client
	cfg     *config.Config
	log     *slog.Logger
	session *session.Store

	visible       section
	phase         transitionPhase
	transSeq      int
	pendingTarget section

	auth      authModel
	home      homeModel
	about     aboutModel
	feedback  feedbackModel
	dashboard dashboardModel

	notice notifier
	th     theme

	width  int
	height int

	dragging   bool
	dragStartX int
}

// NewApp creates the root model. cfg may be nil (defaults apply); log may
// be nil (logging is discarded).
func NewApp(c *client.Client, cfg *config.Config, sess *session.Store, log *slog.Logger) App {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	th := lightTheme()
	if cfg != nil {
		th = themeByName(cfg.Theme)
	}
	return App{
		client:    c,
		cfg:       cfg,
		log:       log,
		session:   sess,
		visible:   sectionAuth,
		auth:      newAuthModel(c),
		home:      newHomeModel(c, sess),
		about:     newAboutModel(),
		feedback:  newFeedbackModel(c, sess),
		dashboard: newDashboardModel(c, sess),
		th:        th,
	}
}

func (a App) Init() tea.Cmd {
	return a.probeSession(true)
}

// probeSession fetches the current profile. On startup this is the silent
// session check; later calls refresh history after state-changing actions.
func (a App) probeSession(startup bool) tea.Cmd {
	c := a.client
	return func() tea.Msg {
		resp, err := c.Profile(context.Background())
		return profileLoadedMsg{resp: resp, err: err, startup: startup}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - chromeLines}
		a.home, _ = a.home.Update(bodyMsg)
		a.dashboard, _ = a.dashboard.Update(bodyMsg)
		return a, nil

	case notifyMsg:
		return a, a.notice.show(msg.text, msg.sev)

	case notifyHideMsg:
		a.notice.handleHide(msg)
		return a, nil

	case sectionHiddenMsg:
		if msg.seq != a.transSeq || a.phase != phaseExiting {
			return a, nil // superseded transition
		}
		a.visible = msg.target
		a.phase = phaseEntering
		seq := msg.seq
		return a, tea.Tick(sectionEnterDelay, func(time.Time) tea.Msg {
			return sectionShownMsg{seq: seq}
		})

	case sectionShownMsg:
		if msg.seq != a.transSeq || a.phase != phaseEntering {
			return a, nil
		}
		a.phase = phaseIdle
		if a.visible == sectionDashboard {
			// The dashboard refreshes only once its section is visible.
			return a, a.dashboard.loadStats()
		}
		return a, nil

	case profileLoadedMsg:
		return a.handleProfile(msg)

	case authResultMsg:
		return a.handleAuthResult(msg)

	case loggedOutMsg:
		// Local teardown is unconditional; only the notification differs.
		a = a.clearSessionState()
		if msg.err != nil {
			a.log.Debug("remote logout failed", "err", msg.err)
			return a, a.notice.show("Logout failed, but your session was cleared locally", sevWarning)
		}
		return a, a.notice.show("You have been logged out. Thank you for using Dermalyze!", sevSuccess)

	case refreshProfileMsg:
		return a, a.probeSession(false)

	// Pipeline and view messages are routed by type, not by visibility, so
	// in-flight work finishes even after the user navigates away.
	case previewReadyMsg, analyzeResultMsg, confidenceFillMsg, resultCopiedMsg,
		spinner.TickMsg, progress.FrameMsg:
		var cmd tea.Cmd
		a.home, cmd = a.home.Update(msg)
		return a, cmd

	case statsLoadedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd

	case feedbackSentMsg:
		var cmd tea.Cmd
		a.feedback, cmd = a.feedback.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKeys(msg)
	}
	return a, nil
}

func (a App) handleProfile(msg profileLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if a.session.Active() && client.IsStatus(msg.err, 401) {
			// The server no longer recognizes the session; mirror it locally.
			a = a.clearSessionState()
			return a, a.notice.show("Your session has expired. Please log in again.", sevWarning)
		}
		if msg.startup {
			return a, a.notice.show("Welcome to Dermalyze! Please log in or register to begin.", sevInfo)
		}
		return a, nil // silent refresh failure
	}

	wasActive := a.session.Active()
	a.session.Set(msg.resp.User, msg.resp.AnalysisHistory)
	if !wasActive {
		a = a.enterAuthenticated()
	}
	return a, nil
}

func (a App) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	a.auth.busy = false
	if msg.err != nil {
		fallback := "Network error. Please try again."
		var httpErr *client.HTTPError
		if errors.As(msg.err, &httpErr) {
			fallback = "Login failed"
			if msg.register {
				fallback = "Registration failed"
			}
		}
		return a, a.notice.show(client.Reason(msg.err, fallback), sevError)
	}

	a.session.Set(*msg.user, nil) // history defaults to empty
	a.auth = a.auth.reset()
	a = a.enterAuthenticated()

	if msg.register {
		welcome := fmt.Sprintf("Welcome to Dermalyze, %s! Your account has been created.", msg.user.Name)
		return a, a.notice.show(welcome, sevSuccess)
	}
	welcome := fmt.Sprintf("Welcome back, %s!", msg.user.Name)
	// A login may have existing history; pull server truth.
	return a, tea.Batch(a.notice.show(welcome, sevSuccess), a.probeSession(false))
}

// enterAuthenticated forces home as the visible section and reveals the
// navigation chrome. Any in-flight transition is invalidated.
func (a App) enterAuthenticated() App {
	a.transSeq++
	a.phase = phaseIdle
	a.visible = sectionHome
	a.log.Debug("authenticated", "user", a.session.User().Email)
	return a
}

// clearSessionState destroys the session, resets every view that carries
// per-session state and forces the auth section.
func (a App) clearSessionState() App {
	a.session.Clear()
	a.home = a.home.reset()
	a.dashboard = a.dashboard.reset()
	a.feedback = a.feedback.reset()
	a.auth = a.auth.reset()
	a.transSeq++
	a.phase = phaseIdle
	a.visible = sectionAuth
	return a
}

func (a App) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Modifier combos work everywhere, including while editing.
	switch key {
	case "ctrl+c":
		return a, tea.Quit
	case "ctrl+t":
		return a.toggleTheme()
	case "ctrl+l":
		if a.session.Active() {
			return a.logout()
		}
		return a, nil
	case "alt+1", "alt+2", "alt+3", "alt+4":
		target := sectionForDigit(strings.TrimPrefix(key, "alt+"))
		return a.switchTo(target, true)
	}

	if !a.isEditing() {
		switch key {
		case "q":
			return a, tea.Quit
		case "x":
			a.notice.dismiss()
			return a, nil
		case "1", "2", "3", "4":
			return a.switchTo(sectionForDigit(key), false)
		case "left":
			return a.swipe(-1)
		case "right":
			return a.swipe(1)
		}
	}

	var cmd tea.Cmd
	switch a.visible {
	case sectionAuth:
		a.auth, cmd = a.auth.Update(msg)
	case sectionHome:
		a.home, cmd = a.home.Update(msg)
	case sectionFeedback:
		a.feedback, cmd = a.feedback.Update(msg)
	case sectionDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	}
	return a, cmd
}

func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			a.dragging = true
			a.dragStartX = msg.X
		}
	case tea.MouseActionRelease:
		if !a.dragging {
			return a, nil
		}
		a.dragging = false
		diff := a.dragStartX - msg.X
		if diff >= swipeThreshold {
			return a.swipe(1) // dragged left: next section
		}
		if diff <= -swipeThreshold {
			return a.swipe(-1) // dragged right: previous section
		}
	}
	return a, nil
}

// sectionForDigit maps the 1-4 navigation keys to their sections.
func sectionForDigit(d string) section {
	switch d {
	case "2":
		return sectionAbout
	case "3":
		return sectionFeedback
	case "4":
		return sectionDashboard
	default:
		return sectionHome
	}
}

// switchTo starts a two-phase transition to target. Without an active
// session every target except auth is rejected with a warning. announce
// adds the shortcut-style notification.
func (a App) switchTo(target section, announce bool) (tea.Model, tea.Cmd) {
	if !a.session.Active() && target != sectionAuth {
		return a, a.notice.show("Please log in to access this section", sevWarning)
	}
	if target == a.visible && a.phase == phaseIdle {
		return a, nil
	}
	if a.phase != phaseIdle && target == a.pendingTarget {
		return a, nil
	}

	a.transSeq++
	a.phase = phaseExiting
	a.pendingTarget = target
	seq := a.transSeq
	a.log.Debug("section transition", "to", target.title(), "seq", seq)

	hide := tea.Tick(sectionExitDuration, func(time.Time) tea.Msg {
		return sectionHiddenMsg{seq: seq, target: target}
	})
	if announce {
		return a, tea.Batch(hide, a.notice.show("Switched to "+target.title(), sevSuccess))
	}
	return a, hide
}

// swipe moves one step in the cyclic section order.
func (a App) swipe(dir int) (tea.Model, tea.Cmd) {
	if !a.session.Active() {
		return a, a.notice.show("Please log in to navigate sections", sevWarning)
	}
	cur := a.visible
	if a.phase != phaseIdle {
		cur = a.pendingTarget // step from the in-flight target
	}
	idx := 0
	for i, s := range swipeOrder {
		if s == cur {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(swipeOrder)) % len(swipeOrder)
	return a.switchTo(swipeOrder[idx], true)
}

func (a App) toggleTheme() (tea.Model, tea.Cmd) {
	var note string
	if a.th.name == "dark" {
		a.th = lightTheme()
		note = "Light mode activated"
	} else {
		a.th = darkTheme()
		note = "Dark mode activated for better evening use"
	}
	if a.cfg != nil {
		a.cfg.Theme = a.th.name
		if err := a.cfg.Save(); err != nil {
			a.log.Debug("persist theme", "err", err)
		}
	}
	return a, a.notice.show(note, sevSuccess)
}

// logout fires the best-effort remote call; teardown happens when its
// outcome arrives, succeed or fail.
func (a App) logout() (tea.Model, tea.Cmd) {
	c := a.client
	return a, func() tea.Msg {
		return loggedOutMsg{err: c.Logout(context.Background())}
	}
}

func (a App) isEditing() bool {
	switch a.visible {
	case sectionAuth:
		return true
	case sectionHome:
		return a.home.pathFocused
	case sectionFeedback:
		return a.feedback.focused
	}
	return false
}

// Fixed chrome rows: header(1) + tabs(1) + notice(1) + help(1).
const chromeLines = 4

func (a App) View() string {
	th := a.th

	// Header: product name left, signed-in user right.
	left := " " + th.title.Render("DERMALYZE") + " " + th.dim.Render("terminal")
	right := ""
	if u := a.session.User(); u != nil {
		right = th.dim.Render(u.Name) + " "
	}
	pad := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	header := left + strings.Repeat(" ", pad) + right

	// Navigation chrome is hidden while unauthenticated.
	tabBar := ""
	if a.session.Active() {
		entries := []struct {
			key string
			s   section
		}{
			{"1", sectionHome},
			{"2", sectionAbout},
			{"3", sectionFeedback},
			{"4", sectionDashboard},
		}
		var tabs []string
		for _, e := range entries {
			label := th.dim.Render(e.key) + " "
			name := e.s.title()
			if e.s == a.visible || (a.phase != phaseIdle && e.s == a.pendingTarget) {
				label = th.accent.Render(e.key) + " " + th.selected.Underline(true).Render(name)
			} else {
				label += th.dim.Render(name)
			}
			tabs = append(tabs, label)
		}
		tabBar = "   " + strings.Join(tabs, "    ")
	}

	// Body
	var body string
	switch a.visible {
	case sectionAuth:
		body = a.auth.View(th)
	case sectionHome:
		body = a.home.View(th)
	case sectionAbout:
		body = a.about.View(th)
	case sectionFeedback:
		body = a.feedback.View(th)
	case sectionDashboard:
		body = a.dashboard.View(th)
	}
	if a.phase != phaseIdle {
		// Exit/enter phases render faint, the terminal analog of the fade.
		body = lipgloss.NewStyle().Faint(true).Render(body)
	}

	bodyHeight := a.height - chromeLines
	if a.home.submitting {
		// Full-screen loading overlay while an analysis is in flight.
		overlay := a.home.spin.View() + " " + th.accent.Render("Analyzing image...")
		body = lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center, overlay)
	}
	body = strings.TrimRight(truncateToHeight(body, bodyHeight), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar, body, a.notice.view(a.width, th), a.helpLine())
}

func (a App) helpEntry(key, label string) string {
	return a.th.accent.Render(key) + " " + a.th.dim.Render(label)
}

func (a App) helpLine() string {
	switch a.visible {
	case sectionAuth:
		return " " + a.helpEntry("tab", "next field") + "  " + a.helpEntry("enter", "submit") + "  " +
			a.helpEntry("ctrl+r", "login/register") + "  " + a.helpEntry("ctrl+t", "theme") + "  " +
			a.helpEntry("ctrl+c", "quit")
	case sectionHome:
		if a.home.pathFocused {
			return " " + a.helpEntry("enter", "load image") + "  " + a.helpEntry("esc", "cancel")
		}
		return " " + a.helpEntry("u", "choose image") + "  " + a.helpEntry("a", "analyze") + "  " +
			a.helpEntry("1-4", "sections") + "  " + a.helpEntry("←/→", "swipe") + "  " +
			a.helpEntry("ctrl+l", "logout") + "  " + a.helpEntry("q", "quit")
	case sectionFeedback:
		if a.feedback.focused {
			return " " + a.helpEntry("ctrl+s", "submit") + "  " + a.helpEntry("esc", "stop writing")
		}
		return " " + a.helpEntry("enter", "write") + "  " + a.helpEntry("1-4", "sections") + "  " +
			a.helpEntry("ctrl+l", "logout") + "  " + a.helpEntry("q", "quit")
	default:
		return " " + a.helpEntry("1-4", "sections") + "  " + a.helpEntry("←/→", "swipe") + "  " +
			a.helpEntry("ctrl+t", "theme") + "  " + a.helpEntry("ctrl+l", "logout") + "  " +
			a.helpEntry("q", "quit")
	}
}
