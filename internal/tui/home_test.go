package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/avellar/dermterm/internal/session"
	"github.com/avellar/dermterm/pkg/client"
	"github.com/avellar/dermterm/pkg/domain"
)

// pngHeader is enough magic bytes for content-type sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func newTestHome(authed bool) homeModel {
	sess := session.New()
	if authed {
		sess.Set(domain.User{ID: 1, Name: "Jane", Email: "jane@example.com"}, nil)
	}
	return newHomeModel(client.New("http://localhost:0", nil), sess)
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func runNotify(t *testing.T, cmd tea.Cmd) notifyMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a notification command")
	}
	msg, ok := cmd().(notifyMsg)
	if !ok {
		t.Fatalf("expected notifyMsg, got %T", cmd())
	}
	return msg
}

func TestSelectFileRequiresSession(t *testing.T) {
	m := newTestHome(false)
	m, cmd := m.selectFile("/tmp/whatever.png")
	note := runNotify(t, cmd)
	if note.sev != sevWarning || !strings.Contains(note.text, "log in") {
		t.Errorf("note = %+v, want login warning", note)
	}
	if m.upload != nil {
		t.Error("no upload should be selected without a session")
	}
}

func TestSelectFileRejectsNonImage(t *testing.T) {
	m := newTestHome(true)
	path := writeTempFile(t, "notes.txt", []byte("plain text, not an image"))

	m, cmd := m.selectFile(path)
	note := runNotify(t, cmd)
	if note.sev != sevError {
		t.Errorf("severity = %d, want error", note.sev)
	}
	if !strings.Contains(note.text, "not an image") {
		t.Errorf("note = %q", note.text)
	}
	if m.upload != nil {
		t.Error("a rejected file must leave the pipeline empty")
	}
}

func TestSelectFileRejectionReplacesPending(t *testing.T) {
	m := newTestHome(true)
	m.upload = &pendingUpload{id: uuid.New(), name: "old.png"}
	path := writeTempFile(t, "doc.txt", []byte("definitely text"))

	m, _ = m.selectFile(path)
	if m.upload != nil {
		t.Error("rejection must clear the previously selected image too")
	}
}

func TestSelectFileAcceptsImage(t *testing.T) {
	m := newTestHome(true)
	m.result = &domain.Prediction{Condition: "Acne", Confidence: 0.8}
	path := writeTempFile(t, "mole.png", pngHeader)

	m, cmd := m.selectFile(path)
	if m.upload == nil {
		t.Fatal("expected a pending upload")
	}
	if m.upload.name != "mole.png" || m.upload.mime != "image/png" {
		t.Errorf("upload = %+v", m.upload)
	}
	if m.result != nil {
		t.Error("a new selection must hide the previous result")
	}
	if m.pathFocused {
		t.Error("path input should blur after a successful selection")
	}
	if cmd == nil {
		t.Error("selection should kick off the preview decode")
	}
}

func TestSelectFileMissing(t *testing.T) {
	m := newTestHome(true)
	_, cmd := m.selectFile("/nonexistent/image.png")
	note := runNotify(t, cmd)
	if note.sev != sevError || !strings.Contains(note.text, "Could not read file") {
		t.Errorf("note = %+v", note)
	}
}

func TestSubmitGuards(t *testing.T) {
	m := newTestHome(false)
	_, cmd := m.submit()
	note := runNotify(t, cmd)
	if note.sev != sevWarning || !strings.Contains(note.text, "log in") {
		t.Errorf("note = %+v", note)
	}

	m = newTestHome(true)
	_, cmd = m.submit()
	note = runNotify(t, cmd)
	if !strings.Contains(note.text, "Choose an image first") {
		t.Errorf("note = %q", note.text)
	}
}

func TestSubmitSetsBusyOnce(t *testing.T) {
	m := newTestHome(true)
	path := writeTempFile(t, "mole.png", pngHeader)
	m.upload = &pendingUpload{id: uuid.New(), path: path, name: "mole.png"}

	m, cmd := m.submit()
	if !m.submitting {
		t.Fatal("submit should mark the pipeline busy")
	}
	if cmd == nil {
		t.Fatal("submit should fire the analyze command")
	}

	// A second submit while busy is a no-op.
	_, cmd = m.submit()
	if cmd != nil {
		t.Error("repeat submission while busy must do nothing")
	}
}

func TestAnalyzeFailureClearsBusyKeepsPreview(t *testing.T) {
	m := newTestHome(true)
	id := uuid.New()
	m.upload = &pendingUpload{id: id, name: "mole.png", preview: "thumb"}
	m.submitting = true

	m, cmd := m.handleAnalyzeResult(analyzeResultMsg{
		id:  id,
		err: &client.HTTPError{StatusCode: 500, Message: "Error analyzing image"},
	})
	if m.submitting {
		t.Error("busy state must clear on failure")
	}
	if m.upload == nil || m.upload.preview != "thumb" {
		t.Error("the preview stays for a manual retry")
	}
	if m.result != nil {
		t.Error("no result on failure")
	}
	note := runNotify(t, cmd)
	if note.sev != sevError || note.text != "Error analyzing image" {
		t.Errorf("note = %+v", note)
	}
}

func TestAnalyzeStaleResponseIgnored(t *testing.T) {
	m := newTestHome(true)
	m.upload = &pendingUpload{id: uuid.New(), name: "current.png"}
	m.submitting = true

	m, cmd := m.handleAnalyzeResult(analyzeResultMsg{
		id:   uuid.New(), // different attempt
		pred: &domain.Prediction{Condition: "Eczema", Confidence: 0.9},
	})
	if m.submitting {
		t.Error("the busy flag clears even for a stale response")
	}
	if m.result != nil {
		t.Error("a stale response must not surface a result")
	}
	if cmd != nil {
		t.Error("a stale response schedules nothing")
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	m := newTestHome(true)
	id := uuid.New()
	m.upload = &pendingUpload{id: id, name: "mole.png"}
	m.submitting = true

	pred := &domain.Prediction{Condition: "Eczema", Confidence: 0.82}
	m, cmd := m.handleAnalyzeResult(analyzeResultMsg{id: id, pred: pred})
	if m.submitting {
		t.Error("busy state must clear on success")
	}
	if m.result != pred {
		t.Errorf("result = %+v", m.result)
	}
	if cmd == nil {
		t.Error("success schedules the bar fill and history refresh")
	}

	out := m.View(lightTheme())
	if !strings.Contains(out, "Eczema") {
		t.Error("result panel missing condition")
	}
	if !strings.Contains(out, "82%") {
		t.Error("result panel missing confidence percentage")
	}
	if !strings.Contains(out, "Medium") {
		t.Error("0.82 confidence should read as Medium certainty")
	}
	if !strings.Contains(out, "not a diagnosis") {
		t.Error("result panel missing the medical disclaimer")
	}
}

func TestConfidenceFillGuards(t *testing.T) {
	m := newTestHome(true)
	id := uuid.New()
	m.upload = &pendingUpload{id: id}
	m.result = &domain.Prediction{Condition: "Acne", Confidence: 0.7}

	// Stale attempt id: no animation.
	_, cmd := m.Update(confidenceFillMsg{id: uuid.New()})
	if cmd != nil {
		t.Error("stale fill tick must be a no-op")
	}

	_, cmd = m.Update(confidenceFillMsg{id: id})
	if cmd == nil {
		t.Error("matching fill tick starts the bar animation")
	}
}

func TestPreviewReadyGuards(t *testing.T) {
	m := newTestHome(true)
	id := uuid.New()
	m.upload = &pendingUpload{id: id}

	m, _ = m.Update(previewReadyMsg{id: uuid.New(), preview: "stale"})
	if m.upload.preview != "" {
		t.Error("stale preview must be dropped")
	}

	m, _ = m.Update(previewReadyMsg{id: id, preview: "thumb"})
	if m.upload.preview != "thumb" {
		t.Error("matching preview should attach to the upload")
	}
}

func TestPreviewDecodeFailureAllowsSubmit(t *testing.T) {
	m := newTestHome(true)
	id := uuid.New()
	m.upload = &pendingUpload{id: id, name: "mole.png"}

	m, _ = m.Update(previewReadyMsg{id: id, err: os.ErrInvalid})
	if !m.upload.noPrev {
		t.Error("decode failure should mark the upload as preview-less")
	}
	out := m.View(lightTheme())
	if !strings.Contains(out, "no preview available") {
		t.Error("view should say the preview is unavailable")
	}
	if !strings.Contains(out, "analyze image") {
		t.Error("submission must remain available without a preview")
	}
}

func TestUploadKeyRequiresSession(t *testing.T) {
	m := newTestHome(false)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")})
	if m.pathFocused {
		t.Error("path input must not focus without a session")
	}
	note := runNotify(t, cmd)
	if note.sev != sevWarning {
		t.Errorf("note = %+v", note)
	}
}

func TestCopyResultOnlyWithResult(t *testing.T) {
	m := newTestHome(true)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if cmd != nil {
		t.Error("y without a result should do nothing")
	}
}
