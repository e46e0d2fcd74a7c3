package tui

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/avellar/dermterm/internal/session"
	"github.com/avellar/dermterm/pkg/client"
	"github.com/avellar/dermterm/pkg/domain"
)

// resultFillDelay is how long after a result renders before the confidence
// bar starts filling, so the animation is perceptible.
const resultFillDelay = 500 * time.Millisecond

const confidenceBarWidth = 40

// pendingUpload is the currently selected, not-yet-submitted image.
// Replaced wholesale on every new selection.
type pendingUpload struct {
	id      uuid.UUID
	path    string
	name    string
	mime    string
	size    int64
	preview string // ANSI thumbnail; empty until decoded
	noPrev  bool   // decode failed; submit still allowed
}

// previewReadyMsg carries the async preview decode outcome.
type previewReadyMsg struct {
	id      uuid.UUID
	preview string
	err     error
}

// analyzeResultMsg carries the analyze call outcome. The attempt id guards
// against a response arriving after the pipeline was reset or replaced.
type analyzeResultMsg struct {
	id   uuid.UUID
	pred *domain.Prediction
	err  error
}

// confidenceFillMsg starts the delayed confidence bar animation.
type confidenceFillMsg struct {
	id uuid.UUID
}

// resultCopiedMsg reports the clipboard copy outcome.
type resultCopiedMsg struct {
	err error
}

// refreshProfileMsg asks the root model to re-fetch the profile so history
// reflects server truth after a successful analysis.
type refreshProfileMsg struct{}

type homeModel struct {
	client  *client.Client
	session *session.Store

	pathInput   string
	pathFocused bool

	upload     *pendingUpload
	submitting bool
	result     *domain.Prediction

	spin spinner.Model
	bar  progress.Model

	width  int
	height int
}

func newHomeModel(c *client.Client, sess *session.Store) homeModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = confidenceBarWidth
	return homeModel{client: c, session: sess, spin: sp, bar: bar}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		m.bar = pm.(progress.Model)
		return m, cmd

	case previewReadyMsg:
		if m.upload == nil || m.upload.id != msg.id {
			return m, nil // selection was replaced or discarded
		}
		if msg.err != nil {
			m.upload.noPrev = true
			return m, nil
		}
		m.upload.preview = msg.preview
		return m, nil

	case confidenceFillMsg:
		if m.result == nil || m.upload == nil || m.upload.id != msg.id {
			return m, nil
		}
		return m, m.bar.SetPercent(m.result.Confidence)

	case analyzeResultMsg:
		return m.handleAnalyzeResult(msg)

	case resultCopiedMsg:
		if msg.err != nil {
			return m, notifyCmd("Could not copy to clipboard", sevError)
		}
		return m, notifyCmd("Result copied to clipboard", sevSuccess)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m homeModel) updateKeys(msg tea.KeyMsg) (homeModel, tea.Cmd) {
	if m.pathFocused {
		switch msg.String() {
		case "esc":
			m.pathFocused = false
		case "enter":
			return m.selectFile(strings.TrimSpace(m.pathInput))
		default:
			m.pathInput = editRune(m.pathInput, msg.String())
		}
		return m, nil
	}

	switch msg.String() {
	case "u", "o":
		if !m.session.Active() {
			return m, notifyCmd("Please log in to upload images", sevWarning)
		}
		m.pathFocused = true
	case "enter", "a":
		return m.submit()
	case "y":
		if m.result != nil {
			return m, m.copyResult()
		}
	}
	return m, nil
}

// selectFile validates the file at path and, when accepted, replaces the
// pending upload and kicks off the async preview decode.
func (m homeModel) selectFile(path string) (homeModel, tea.Cmd) {
	if !m.session.Active() {
		return m, notifyCmd("Please log in to upload images", sevWarning)
	}
	if path == "" {
		return m, notifyCmd("Enter the path of an image to analyze", sevWarning)
	}

	info, err := os.Stat(path)
	if err != nil {
		return m, notifyCmd("Could not read file: "+path, sevError)
	}
	mime, err := sniffMIME(path)
	if err != nil {
		return m, notifyCmd("Could not read file: "+path, sevError)
	}
	if err := domain.ValidateFile(mime, info.Size()); err != nil {
		// Rejection returns the pipeline to empty.
		m.upload = nil
		return m, notifyCmd(capitalize(err.Error()), sevError)
	}

	up := &pendingUpload{
		id:   uuid.New(),
		path: path,
		name: filepath.Base(path),
		mime: mime,
		size: info.Size(),
	}
	m.upload = up
	m.result = nil // hide any previous result
	m.pathFocused = false

	id := up.id
	decode := func() tea.Msg {
		preview, err := renderImagePreview(path)
		return previewReadyMsg{id: id, preview: preview, err: err}
	}
	return m, tea.Batch(decode, notifyCmd("Image loaded. Ready for analysis.", sevSuccess))
}

// submit sends the pending upload to the analysis endpoint. Repeat
// submission is prevented by the busy flag, not by cancelling anything.
func (m homeModel) submit() (homeModel, tea.Cmd) {
	if !m.session.Active() {
		return m, notifyCmd("Please log in to analyze images", sevWarning)
	}
	if m.upload == nil {
		return m, notifyCmd("Choose an image first", sevWarning)
	}
	if m.submitting {
		return m, nil
	}

	m.submitting = true
	c := m.client
	id, path, name := m.upload.id, m.upload.path, m.upload.name
	analyze := func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return analyzeResultMsg{id: id, err: err}
		}
		defer f.Close() //nolint:errcheck // read-only
		pred, err := c.Analyze(context.Background(), name, f)
		return analyzeResultMsg{id: id, pred: pred, err: err}
	}
	return m, tea.Batch(m.spin.Tick, analyze)
}

func (m homeModel) handleAnalyzeResult(msg analyzeResultMsg) (homeModel, tea.Cmd) {
	// Finalizer first: the loading overlay and busy state clear on every
	// path, before any render or notification step can bail out.
	m.submitting = false

	if m.upload == nil || m.upload.id != msg.id {
		return m, nil // superseded by reset or a new selection
	}
	if msg.err != nil {
		// Preview stays intact for a manual retry.
		return m, notifyCmd(client.Reason(msg.err, "Analysis failed. Please try again."), sevError)
	}

	m.result = msg.pred
	// Fresh bar so the fill visibly animates from zero on every result.
	m.bar = progress.New(progress.WithDefaultGradient())
	m.bar.Width = confidenceBarWidth
	id := msg.id
	fill := tea.Tick(resultFillDelay, func(time.Time) tea.Msg {
		return confidenceFillMsg{id: id}
	})
	refresh := func() tea.Msg { return refreshProfileMsg{} }
	return m, tea.Batch(
		notifyCmd("Analysis complete and saved to your history", sevSuccess),
		fill,
		refresh,
	)
}

func (m homeModel) copyResult() tea.Cmd {
	summary := fmt.Sprintf("%s (%s confidence, %s certainty)",
		m.result.Condition, percent(m.result.Confidence), m.result.Certainty())
	return func() tea.Msg {
		return resultCopiedMsg{err: clipboard.WriteAll(summary)}
	}
}

// reset discards the pending upload, preview and result. Used on logout.
func (m homeModel) reset() homeModel {
	return newHomeModel(m.client, m.session)
}

func (m homeModel) View(th theme) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("   " + th.title.Render("Skin Image Analysis") + "\n\n")

	// Upload area
	if m.pathFocused {
		sb.WriteString("   " + th.accent.Render("> ") + th.normal.Render(m.pathInput) + th.accent.Render("█") + "\n")
		sb.WriteString("   " + th.placeholder.Render("path to a JPG/PNG/GIF, enter to load, esc to cancel") + "\n")
	} else if m.upload == nil {
		sb.WriteString("   " + th.dim.Render("No image selected.") + " " + th.placeholder.Render("press u to choose one") + "\n")
	} else {
		sb.WriteString("   " + th.normal.Render(m.upload.name) + "  " +
			th.dim.Render(fmt.Sprintf("%s · %.1f MB", m.upload.mime, float64(m.upload.size)/(1<<20))) + "\n")
	}
	sb.WriteString("\n")

	// Preview
	if m.upload != nil {
		switch {
		case m.upload.preview != "":
			for _, line := range strings.Split(m.upload.preview, "\n") {
				sb.WriteString("   " + line + "\n")
			}
		case m.upload.noPrev:
			sb.WriteString("   " + th.dim.Render("(no preview available)") + "\n")
		default:
			sb.WriteString("   " + th.dim.Render("decoding preview...") + "\n")
		}
		sb.WriteString("\n")
		if m.submitting {
			sb.WriteString("   " + th.dim.Render(m.spin.View()+" Analyzing...") + "\n")
		} else {
			sb.WriteString("   " + th.accent.Render("a") + " " + th.dim.Render("analyze image") + "\n")
		}
	}

	// Result panel
	if m.result != nil {
		label := m.result.Certainty()
		sb.WriteString("\n")
		sb.WriteString("   " + th.selected.Render("Detected condition: ") + th.accent.Render(m.result.Condition) + "\n")
		sb.WriteString("   " + th.fieldLabel.Render("Confidence: ") + th.normal.Render(percent(m.result.Confidence)) +
			"   " + th.fieldLabel.Render("Certainty: ") + th.certaintyStyle(label).Render(label) + "\n")
		sb.WriteString("   " + m.bar.View() + "\n\n")
		sb.WriteString("   " + th.placeholder.Render("This screening is not a diagnosis. Always consult a dermatologist.") + "\n")
		sb.WriteString("   " + th.placeholder.Render("y to copy result") + "\n")
	}

	return sb.String()
}

// sniffMIME detects the content type from the file's first bytes, the same
// signal the analysis endpoint trusts.
func sniffMIME(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck // read-only
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
