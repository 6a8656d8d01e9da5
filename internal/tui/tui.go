// Package tui provides a Bubble Tea terminal front-end over the download
// coordinator. Job events reach the model as messages through
// tea.Program.Send; the board of rows lives inside the model.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ytget/ytdown/internal/download"
	"github.com/ytget/ytdown/internal/events"
	"github.com/ytget/ytdown/internal/format"
	"github.com/ytget/ytdown/internal/model"
	"github.com/ytget/ytdown/internal/platform"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	formatStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))
)

// Layout
const (
	headerLines     = 12
	linesPerRow     = 3
	minVisibleRows  = 3
	minProgressBar  = 20
	maxProgressBar  = 60
	defaultBarWidth = 40
	titleWidth      = 48
)

// Texts
const (
	textEnterURL      = "Please enter a URL"
	textQueued        = "Added to queue"
	textParsing       = "Parsing playlist..."
	textParsingFailed = "Playlist parsing failed"
	textNoJobs        = "No downloads yet"
)

// PlaylistExpander lists the videos of a playlist URL
type PlaylistExpander interface {
	Expand(ctx context.Context, url string) (*model.Playlist, error)
}

// Options wires the model to the core
type Options struct {
	Submitter   download.Submitter
	Catalog     *format.Catalog
	Playlists   PlaylistExpander
	FormatKey   string
	DownloadDir string
}

// Message types
type (
	// fileSizeMsg carries the size of a finished file
	fileSizeMsg struct {
		URL  string
		Size int64
	}

	// playlistMsg is sent when a playlist expansion finishes
	playlistMsg struct {
		Playlist *model.Playlist
		Key      string
		Err      error
	}
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	submitter   download.Submitter
	catalog     *format.Catalog
	playlists   PlaylistExpander
	downloadDir string

	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model

	board      *model.Board
	formatKeys []string
	formatIdx  int

	notice    string
	noticeErr bool
	expanding bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = format.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "https://www.youtube.com/watch?v=..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = defaultBarWidth

	m := Model{
		submitter:   opts.Submitter,
		catalog:     catalog,
		playlists:   opts.Playlists,
		downloadDir: opts.DownloadDir,
		textInput:   ti,
		spinner:     sp,
		progress:    prog,
		board:       model.NewBoard(),
		formatKeys:  catalog.Keys(),
	}
	m.selectFormat(opts.FormatKey)
	return m
}

// Subscribe forwards every job event of bus to the program. Send blocks
// until the program reads the message, which keeps per-URL order intact.
func Subscribe(bus *events.Bus, p *tea.Program) error {
	return bus.Subscribe(func(ev model.JobEvent) {
		p.Send(ev)
	})
}

func (m *Model) selectFormat(key string) {
	if key == "" {
		key = format.DefaultKey
	}
	for i, k := range m.formatKeys {
		if k == key {
			m.formatIdx = i
			return
		}
	}
}

// FormatKey returns the currently selected format key
func (m Model) FormatKey() string {
	if len(m.formatKeys) == 0 {
		return format.DefaultKey
	}
	return m.formatKeys[m.formatIdx]
}

// Board exposes the row state
func (m Model) Board() *model.Board {
	return m.board
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-30, minProgressBar), maxProgressBar)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			cmds = append(cmds, m.submitInput())
			return m, tea.Batch(cmds...)

		case "tab":
			if n := len(m.formatKeys); n > 0 {
				m.formatIdx = (m.formatIdx + 1) % n
			}
			return m, nil

		case "shift+tab":
			if n := len(m.formatKeys); n > 0 {
				m.formatIdx = (m.formatIdx + n - 1) % n
			}
			return m, nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case model.JobEvent:
		if _, ok := m.board.Apply(msg); ok {
			if fin, isFinished := msg.(model.Finished); isFinished {
				cmds = append(cmds, statFile(fin.URL, fin.FilePath))
			}
		}

	case fileSizeMsg:
		m.board.SetFileSize(msg.URL, msg.Size)

	case playlistMsg:
		m.expanding = false
		if msg.Err != nil {
			m.setNotice(fmt.Sprintf("%s: %v", textParsingFailed, msg.Err), true)
			break
		}
		urls := msg.Playlist.VideoURLs()
		for _, u := range urls {
			m.submit(u, msg.Key)
		}
		m.setNotice(fmt.Sprintf("Playlist queued: %s (%d)", msg.Playlist.Title, len(urls)), false)
		m.textInput.SetValue("")

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submitInput validates the entered URL and queues it, or starts a
// playlist expansion.
func (m *Model) submitInput() tea.Cmd {
	if m.expanding {
		return nil
	}
	url := platform.CleanURL(m.textInput.Value())
	if url == "" {
		m.setNotice(textEnterURL, true)
		return nil
	}
	if err := platform.ValidateURL(url); err != nil {
		m.setNotice("Invalid URL: "+err.Error(), true)
		return nil
	}

	key := m.FormatKey()
	if m.playlists != nil && platform.IsPlaylistURL(url) {
		m.expanding = true
		m.setNotice(textParsing, false)
		return tea.Batch(m.expandPlaylist(url, key), m.spinner.Tick)
	}

	m.submit(url, key)
	m.textInput.SetValue("")
	m.setNotice(textQueued, false)
	return nil
}

func (m *Model) submit(url, key string) {
	if m.submitter == nil {
		return
	}
	job := m.submitter.Submit(url, key)
	m.board.Add(job)
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m Model) expandPlaylist(url, key string) tea.Cmd {
	playlists := m.playlists
	return func() tea.Msg {
		playlist, err := playlists.Expand(context.Background(), url)
		return playlistMsg{Playlist: playlist, Key: key, Err: err}
	}
}

// statFile reads the size of a finished file off the update loop
func statFile(url, path string) tea.Cmd {
	return func() tea.Msg {
		size, _ := platform.FileSize(path)
		return fileSizeMsg{URL: url, Size: size}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("▶ YouTube Downloader"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Enter YouTube URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Format: "))
	b.WriteString(formatStyle.Render(m.formatDisplayName()))
	b.WriteString("\n")
	if m.downloadDir != "" {
		b.WriteString(dimStyle.Render("Download path: " + m.downloadDir))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.notice != "" {
		if m.expanding {
			b.WriteString(m.spinner.View())
			b.WriteString(" ")
		}
		if m.noticeErr {
			b.WriteString(errorStyle.Render(m.notice))
		} else {
			b.WriteString(successStyle.Render(m.notice))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderJobs())

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: add to queue • tab: next format • shift+tab: previous format • esc: quit"))

	return b.String()
}

func (m Model) formatDisplayName() string {
	spec, err := m.catalog.Lookup(m.FormatKey())
	if err != nil {
		return m.FormatKey()
	}
	return spec.DisplayName
}

// visibleRows is how many job rows fit the terminal
func (m Model) visibleRows() int {
	if m.height <= 0 {
		return m.board.Len()
	}
	return max((m.height-headerLines)/linesPerRow, minVisibleRows)
}

func (m Model) renderJobs() string {
	var b strings.Builder

	views := m.board.Views()
	if len(views) == 0 {
		b.WriteString(dimStyle.Render(textNoJobs))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Jobs (%d):", len(views))))
	b.WriteString("\n")

	limit := m.visibleRows()
	for i, v := range views {
		if i >= limit {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", len(views)-limit)))
			b.WriteString("\n")
			break
		}
		b.WriteString(m.renderRow(v))
	}
	return b.String()
}

func (m Model) renderRow(v *model.JobView) string {
	var b strings.Builder

	style, icon := stateStyle(v.State)
	title := v.GetDisplayTitle()
	if len([]rune(title)) > titleWidth {
		title = string([]rune(title)[:titleWidth-1]) + "…"
	}

	b.WriteString(style.Render(icon + " " + title))
	b.WriteString(" ")
	b.WriteString(dimStyle.Render("[" + v.FormatKey + "]"))
	b.WriteString("\n  ")
	b.WriteString(m.progress.ViewAs(float64(v.Percent) / 100))
	b.WriteString(" ")
	b.WriteString(style.Render(v.Status))
	if v.FileSize > 0 {
		b.WriteString(dimStyle.Render("  Size: " + platform.FormatFileSize(v.FileSize)))
	}
	b.WriteString("\n")
	return b.String()
}

func stateStyle(state model.JobState) (lipgloss.Style, string) {
	switch state {
	case model.JobStateDownloading:
		return infoStyle, "›"
	case model.JobStateConverting:
		return warningStyle, "⚙"
	case model.JobStateCompleted:
		return successStyle, "✓"
	case model.JobStateError:
		return errorStyle, "✗"
	default:
		return dimStyle, "•"
	}
}
