package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ytget/ytdown/internal/format"
	"github.com/ytget/ytdown/internal/model"
)

type submitCall struct {
	url string
	key string
}

type fakeSubmitter struct {
	calls []submitCall
}

func (f *fakeSubmitter) Submit(url, formatKey string) model.DownloadJob {
	f.calls = append(f.calls, submitCall{url, formatKey})
	return model.NewDownloadJob(url, formatKey)
}

func newTestModel(opts Options) (Model, *fakeSubmitter) {
	sub := &fakeSubmitter{}
	opts.Submitter = sub
	if opts.Catalog == nil {
		opts.Catalog = format.Default()
	}
	return NewModel(opts), sub
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, expected Model", next)
	}
	return nm, cmd
}

func TestEnterSubmitsURL(t *testing.T) {
	m, sub := newTestModel(Options{})

	m.textInput.SetValue("  https://www.youtube.com/watch?v=abc ")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if len(sub.calls) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(sub.calls))
	}
	if sub.calls[0].url != "https://www.youtube.com/watch?v=abc" || sub.calls[0].key != format.DefaultKey {
		t.Errorf("unexpected submission %#v", sub.calls[0])
	}
	if m.textInput.Value() != "" {
		t.Errorf("expected input cleared, got %q", m.textInput.Value())
	}
	if view, ok := m.Board().Get("https://www.youtube.com/watch?v=abc"); !ok || view.State != model.JobStatePending {
		t.Errorf("expected pending row, got %#v", view)
	}
}

func TestEnterRejectsInvalidInput(t *testing.T) {
	tests := []string{"", "  ", "ftp://example.com", "not a url"}

	for _, input := range tests {
		m, sub := newTestModel(Options{})
		m.textInput.SetValue(input)
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		if len(sub.calls) != 0 {
			t.Errorf("input %q: expected no submission, got %#v", input, sub.calls)
		}
		if !m.noticeErr || m.notice == "" {
			t.Errorf("input %q: expected an error notice", input)
		}
	}
}

func TestFormatCycling(t *testing.T) {
	m, sub := newTestModel(Options{FormatKey: format.KeyMP3})
	if m.FormatKey() != format.KeyMP3 {
		t.Fatalf("expected initial format mp3, got %s", m.FormatKey())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.FormatKey() != format.KeyAAC {
		t.Errorf("expected aac after tab, got %s", m.FormatKey())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.FormatKey() != format.KeyMP4 {
		t.Errorf("expected mp4 after two shift+tab, got %s", m.FormatKey())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.FormatKey() != format.KeyAAC32 {
		t.Errorf("expected wrap to aac32, got %s", m.FormatKey())
	}

	m.textInput.SetValue("https://youtu.be/x")
	update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(sub.calls) != 1 || sub.calls[0].key != format.KeyAAC32 {
		t.Errorf("expected aac32 submission, got %#v", sub.calls)
	}
}

func TestUnknownFormatKeyFallsBackToDefault(t *testing.T) {
	m, _ := newTestModel(Options{FormatKey: "flac"})
	if m.FormatKey() != format.DefaultKey {
		t.Errorf("expected default format, got %s", m.FormatKey())
	}
}

func TestJobEventsUpdateBoard(t *testing.T) {
	m, _ := newTestModel(Options{})
	const u = "https://youtu.be/song"

	m.submit(u, format.KeyMP3)
	m, _ = update(t, m, model.TitleResolved{URL: u, Title: "Song"})
	m, _ = update(t, m, model.Progress{URL: u, Percent: 55})
	m, _ = update(t, m, model.StatusChanged{URL: u, Message: model.StatusConverting})

	view, _ := m.Board().Get(u)
	if view.Title != "Song" || view.Percent != 55 || view.State != model.JobStateConverting {
		t.Fatalf("unexpected view: %#v", view)
	}

	if !strings.Contains(m.View(), "Song") {
		t.Error("expected title in rendered view")
	}
}

func TestFinishedReadsFileSize(t *testing.T) {
	m, _ := newTestModel(Options{})
	const u = "https://youtu.be/song"

	path := filepath.Join(t.TempDir(), "Song.mp3")
	if err := os.WriteFile(path, make([]byte, 1500), 0o644); err != nil {
		t.Fatal(err)
	}

	m.submit(u, format.KeyMP3)
	m, _ = update(t, m, model.Finished{URL: u, FilePath: path})

	view, _ := m.Board().Get(u)
	if view.State != model.JobStateCompleted || view.OutputPath != path || view.Percent != 100 {
		t.Fatalf("unexpected view after finish: %#v", view)
	}

	msg := statFile(u, path)()
	m, _ = update(t, m, msg)
	if view.FileSize != 1500 {
		t.Errorf("expected size 1500, got %d", view.FileSize)
	}
	if !strings.Contains(m.View(), "Size: 1.5 KB") {
		t.Error("expected size in rendered view")
	}
}

func TestEventsForUnknownURLIgnored(t *testing.T) {
	m, _ := newTestModel(Options{})
	m, _ = update(t, m, model.Progress{URL: "https://youtu.be/none", Percent: 10})

	if m.Board().Len() != 0 {
		t.Errorf("expected empty board, got %d rows", m.Board().Len())
	}
}

func TestPlaylistMessages(t *testing.T) {
	m, sub := newTestModel(Options{})

	pl := model.NewPlaylist("PL1", "https://www.youtube.com/playlist?list=PL1")
	pl.Title = "Mix Playlist"
	pl.AddVideo(&model.PlaylistVideo{ID: "a", URL: "https://www.youtube.com/watch?v=a"})
	pl.AddVideo(&model.PlaylistVideo{ID: "b", URL: "https://www.youtube.com/watch?v=b"})

	m.expanding = true
	m, _ = update(t, m, playlistMsg{Playlist: pl, Key: format.KeyMP3})

	if m.expanding {
		t.Error("expected expansion finished")
	}
	if len(sub.calls) != 2 || sub.calls[0].url != "https://www.youtube.com/watch?v=a" || sub.calls[1].key != format.KeyMP3 {
		t.Fatalf("unexpected submissions %#v", sub.calls)
	}

	m, _ = update(t, m, playlistMsg{Key: format.KeyMP3, Err: errors.New("boom")})
	if !m.noticeErr || !strings.Contains(m.notice, "boom") {
		t.Errorf("expected error notice, got %q", m.notice)
	}
	if len(sub.calls) != 2 {
		t.Errorf("expected no extra submissions, got %d", len(sub.calls))
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m, _ := newTestModel(Options{})
		_, cmd := update(t, m, tea.KeyMsg{Type: key})
		if cmd == nil {
			t.Fatalf("key %v: expected quit command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %v: expected tea.QuitMsg", key)
		}
	}
}

func TestVisibleRows(t *testing.T) {
	m, _ := newTestModel(Options{})
	for i := range 10 {
		m.submit("https://youtu.be/"+string(rune('a'+i)), format.KeyMP4)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: headerLines + 4*linesPerRow})
	if m.visibleRows() != 4 {
		t.Errorf("expected 4 visible rows, got %d", m.visibleRows())
	}
	if !strings.Contains(m.View(), "6 more") {
		t.Error("expected overflow marker in view")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 5})
	if m.visibleRows() != minVisibleRows {
		t.Errorf("expected minimum rows, got %d", m.visibleRows())
	}
}
