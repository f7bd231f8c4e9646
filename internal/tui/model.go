// Package tui is the terminal shell. It renders the engine's view state
// with bubbletea and drives playback with a local clock standing in for an
// audio element.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nullwiz/audiopipe/internal/app"
	"github.com/nullwiz/audiopipe/internal/export"
	"github.com/nullwiz/audiopipe/internal/playback"
	"github.com/nullwiz/audiopipe/internal/transcript"
	"github.com/nullwiz/audiopipe/internal/viewstate"
)

const tickInterval = 200 * time.Millisecond

// Model is the root bubbletea model.
type Model struct {
	engine *app.Engine
	bridge *Bridge
	clock  *playback.Clock

	transcriptPath string

	// Mirror of the engine state, updated via bridge messages.
	state viewstate.State
	stats transcript.Statistics

	// Search input
	searching   bool
	searchInput string

	// Playback highlight
	activeID  int
	hasActive bool

	// Toast
	toastLevel   string
	toastMessage string

	// UI state
	scroll int
	width  int
	height int
}

// New creates a model around an engine whose broadcaster is bridge.
// transcriptPath, when non-empty, is loaded on startup.
func New(engine *app.Engine, bridge *Bridge, transcriptPath string) Model {
	return Model{
		engine:         engine,
		bridge:         bridge,
		transcriptPath: transcriptPath,
		state:          engine.State(),
		activeID:       -1,
	}
}

// AttachAudio wires a companion audio resource into the engine and starts a
// paused playback clock for it.
func (m *Model) AttachAudio(name string, duration float64) {
	m.clock = playback.NewClock(duration)
	m.engine.SetAudio(name, duration)
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.bridge.Wait(), tickCmd()}
	if m.transcriptPath != "" {
		cmds = append(cmds, loadTranscriptCmd(m.engine, m.transcriptPath))
	}
	return tea.Batch(cmds...)
}

func loadTranscriptCmd(engine *app.Engine, path string) tea.Cmd {
	return func() tea.Msg {
		name := baseName(path)
		raw, err := os.ReadFile(path)
		if err != nil {
			return LoadFinishedMsg{Name: name, Err: err}
		}
		gen := engine.BeginLoad(name)
		return LoadFinishedMsg{Name: name, Err: engine.CompleteLoad(gen, name, raw)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

func clearToastCmd() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return ClearToastMsg{}
	})
}

func (m Model) exportCmd(key string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		store := engine.Store()
		if store == nil {
			return ExportFinishedMsg{Err: fmt.Errorf("no transcription data loaded")}
		}

		var path string
		var write func(f *os.File) error
		switch key {
		case KeyExportSRT:
			path = export.SRTFileName
			write = func(f *os.File) error {
				if groups := engine.ConsolidatedGroups(); groups != nil {
					return export.GroupSRT(f, groups)
				}
				return export.SRT(f, engine.FilteredSegments())
			}
		case KeyExportJSON:
			threshold := engine.Threshold()
			path = export.ConsolidatedFileName(threshold)
			write = func(f *os.File) error {
				groups := engine.ConsolidatedGroups()
				if groups == nil {
					groups = transcript.Consolidate(store.Segments(), threshold)
				}
				return export.ConsolidatedJSON(f, groups, export.JSONOptions{
					Threshold:        threshold,
					OriginalSegments: store.Len(),
					TotalDuration:    store.Statistics().TotalDuration,
				})
			}
		default:
			path = export.TextFileName
			write = func(f *os.File) error {
				if groups := engine.ConsolidatedGroups(); groups != nil {
					return export.GroupText(f, groups)
				}
				return export.Text(f, engine.FilteredSegments())
			}
		}

		f, err := os.Create(path)
		if err != nil {
			return ExportFinishedMsg{Path: path, Err: err}
		}
		defer func() { _ = f.Close() }()

		return ExportFinishedMsg{Path: path, Err: write(f)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StateChangedMsg:
		if msg.State.Kind != m.state.Kind || msg.State.Subview != m.state.Subview {
			m.scroll = 0
		}
		m.state = msg.State
		return m, m.bridge.Wait()

	case StatisticsMsg:
		m.stats = msg.Stats
		return m, m.bridge.Wait()

	case ActiveSegmentMsg:
		m.activeID = msg.SegmentID
		m.hasActive = msg.Active
		if msg.Active {
			m.scrollToSegment(msg.SegmentID)
		}
		return m, m.bridge.Wait()

	case ToastMsg:
		m.toastLevel = msg.Level
		m.toastMessage = msg.Message
		return m, tea.Batch(m.bridge.Wait(), clearToastCmd())

	case ClearToastMsg:
		m.toastMessage = ""
		return m, nil

	case LoadFinishedMsg:
		// State and toasts already arrived through the bridge; only a read
		// failure needs reporting here.
		if msg.Err != nil && m.engine.Store() == nil && m.toastMessage == "" {
			m.toastLevel = app.ToastError
			m.toastMessage = msg.Err.Error()
			return m, clearToastCmd()
		}
		return m, nil

	case ExportFinishedMsg:
		if msg.Err != nil {
			m.toastLevel = app.ToastError
			m.toastMessage = msg.Err.Error()
		} else {
			m.toastLevel = app.ToastSuccess
			m.toastMessage = "Exported " + msg.Path
		}
		return m, clearToastCmd()

	case TickMsg:
		if m.clock != nil && m.clock.Playing() {
			m.engine.TimeUpdate(m.clock.Pos())
		}
		return m, tickCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	key := msg.String()
	switch key {
	case KeyQuit, KeyCtrlC:
		return m, tea.Quit

	case KeySearch:
		if m.state.Kind == viewstate.Content || m.state.Kind == viewstate.NoResults {
			m.searching = true
			m.searchInput = m.engine.Query()
		}
		return m, nil

	case KeyTab:
		if m.state.Kind == viewstate.Content {
			_ = m.engine.SwitchView(nextSubview(m.state.Subview))
		}
		return m, nil

	case KeyConsolidate:
		m.engine.ApplyConsolidation()
		m.scroll = 0
		return m, nil

	case KeyRawView:
		m.engine.ClearConsolidation()
		m.scroll = 0
		return m, nil

	case KeyMoreGap, KeyMoreGapAlt:
		m.engine.SetThreshold(m.engine.Threshold() + thresholdStep)
		return m.thresholdToast()

	case KeyLessGap:
		m.engine.SetThreshold(m.engine.Threshold() - thresholdStep)
		return m.thresholdToast()

	case KeySpace:
		if m.clock == nil {
			m.toastLevel = app.ToastWarning
			m.toastMessage = "No audio file loaded"
			return m, clearToastCmd()
		}
		m.clock.Toggle()
		return m, nil

	case KeyLeft, KeyRight:
		if m.clock == nil {
			return m, nil
		}
		step := seekStep
		if key == KeyLeft {
			step = -seekStep
		}
		pos := m.clock.Seek(m.clock.Pos() + step)
		m.engine.TimeUpdate(pos)
		return m, nil

	case KeyUp, KeyK:
		if m.scroll > 0 {
			m.scroll--
		}
		return m, nil

	case KeyDown, KeyJ:
		if m.scroll < m.maxScroll() {
			m.scroll++
		}
		return m, nil

	case KeyRetry:
		if m.state.Kind == viewstate.Error {
			_ = m.engine.Retry()
		}
		return m, nil

	case KeyExportText, KeyExportSRT, KeyExportJSON:
		return m, m.exportCmd(key)
	}

	if idx, ok := digitIndex(key); ok {
		m.toggleSpeakerByIndex(idx)
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEscape:
		m.searching = false
		m.searchInput = ""
		m.engine.ClearSearch()
		return m, nil

	case KeyEnter:
		m.searching = false
		return m, nil

	case KeyBackspace:
		if m.searchInput != "" {
			runes := []rune(m.searchInput)
			m.searchInput = string(runes[:len(runes)-1])
			m.engine.SetQuery(m.searchInput)
		}
		return m, nil

	case KeyCtrlC:
		return m, tea.Quit
	}

	if msg.Type == tea.KeyRunes || msg.String() == KeySpace {
		m.searchInput += msg.String()
		m.engine.SetQuery(m.searchInput)
	}
	return m, nil
}

func (m *Model) thresholdToast() (tea.Model, tea.Cmd) {
	m.toastLevel = app.ToastInfo
	m.toastMessage = fmt.Sprintf("Gap threshold: %.1fs", m.engine.Threshold())
	return *m, clearToastCmd()
}

func (m *Model) toggleSpeakerByIndex(idx int) {
	store := m.engine.Store()
	if store == nil {
		return
	}
	speakers := store.Speakers()
	if idx >= len(speakers) {
		return
	}
	m.engine.ToggleSpeaker(speakers[idx])
}

func (m *Model) scrollToSegment(id int) {
	segments := m.engine.FilteredSegments()
	for i, seg := range segments {
		if seg.ID == id {
			visible := m.visibleLines()
			if i < m.scroll || i >= m.scroll+visible {
				m.scroll = max(0, i-visible/2)
			}
			return
		}
	}
}

func (m Model) maxScroll() int {
	total := m.timelineLen()
	visible := m.visibleLines()
	if total <= visible {
		return 0
	}
	return total - visible
}

func (m Model) timelineLen() int {
	if groups := m.engine.ConsolidatedGroups(); groups != nil {
		return len(groups)
	}
	return len(m.engine.FilteredSegments())
}

func (m Model) visibleLines() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + status(1) + divider(2) + toast(1) + footer(1)
	reserved := 7
	return max(5, m.height-reserved)
}

func nextSubview(sub viewstate.Subview) viewstate.Subview {
	switch sub {
	case viewstate.Timeline:
		return viewstate.Speakers
	case viewstate.Speakers:
		return viewstate.Visualization
	default:
		return viewstate.Timeline
	}
}

func digitIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '1'), true
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, dividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderBody())
	sections = append(sections, dividerStyle.Render(strings.Repeat("─", m.width)))

	if m.toastMessage != "" {
		sections = append(sections, toastStyle(m.toastLevel).Render(m.toastMessage))
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("AUDIOPIPE")

	var info string
	if m.stats.SegmentCount > 0 {
		info = dimStyle.Render(fmt.Sprintf("  %d segments · %d speakers · %s · %d words",
			m.stats.SegmentCount, m.stats.SpeakerCount,
			formatClock(m.stats.TotalDuration), m.stats.WordCount))
	}
	return title + info
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.clock != nil {
		var dot string
		if m.clock.Playing() {
			dot = playingDotStyle.Render("▶")
		} else {
			dot = pausedDotStyle.Render("⏸")
		}
		parts = append(parts, fmt.Sprintf("%s %s / %s",
			dot, formatClock(m.clock.Pos()), formatClock(m.clock.Duration())))
	}

	if m.engine.ConsolidatedGroups() != nil {
		parts = append(parts, successStyle.Render("consolidated"))
	}
	parts = append(parts, statusStyle.Render(fmt.Sprintf("gap %.1fs", m.engine.Threshold())))

	if m.searching {
		parts = append(parts, searchPromptStyle.Render("/"+m.searchInput+"▌"))
	} else if q := m.engine.Query(); q != "" {
		parts = append(parts, searchPromptStyle.Render("/"+q))
	}

	return strings.Join(parts, "  ")
}

func (m Model) renderBody() string {
	switch m.state.Kind {
	case viewstate.Welcome:
		return m.renderWelcome()
	case viewstate.Loading:
		return statusStyle.Render(m.state.Message)
	case viewstate.Error:
		return errorStyle.Render("Error: "+m.state.Message) + "\n" +
			dimStyle.Render("Press r to go back.")
	case viewstate.NoResults:
		return warningStyle.Render("No matching segments.") + "\n" +
			dimStyle.Render("Adjust the search with / or re-enable speakers with 1-9. Esc clears the search.")
	case viewstate.Content:
		switch m.state.Subview {
		case viewstate.Speakers:
			return m.renderSpeakers()
		case viewstate.Visualization:
			return m.renderVisualization()
		default:
			return m.renderTimeline()
		}
	}
	return ""
}

func (m Model) renderWelcome() string {
	return titleStyle.Render("Welcome to AudioPipe") + "\n\n" +
		dimStyle.Render("No transcription loaded yet. Point the daemon at a pipeline output\n"+
			"directory or pass a transcript file on the command line.")
}

func (m Model) renderTimeline() string {
	if groups := m.engine.ConsolidatedGroups(); groups != nil {
		return m.renderGroupTimeline(groups)
	}

	segments := m.engine.FilteredSegments()
	colors := transcript.SpeakerColors(m.engine.Store().Segments())

	var lines []string
	for _, seg := range segments {
		ts := timestampStyle.Render(fmt.Sprintf("[%s - %s]",
			formatClock(seg.Start), formatClock(seg.End)))
		speaker := speakerStyle(colors[seg.Speaker]).Render(seg.Speaker)
		line := fmt.Sprintf("%s %s: %s", ts, speaker, seg.Text)
		if m.hasActive && seg.ID == m.activeID {
			line = activeSegmentStyle.Render("▶ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return m.window(lines)
}

func (m Model) renderGroupTimeline(groups []transcript.Group) string {
	colors := transcript.SpeakerColors(m.engine.Store().Segments())

	var lines []string
	for _, g := range groups {
		ts := timestampStyle.Render(fmt.Sprintf("[%s - %s]",
			formatClock(g.Start), formatClock(g.End)))
		speaker := speakerStyle(colors[g.Speaker]).Render(g.Speaker)
		badge := dimStyle.Render(fmt.Sprintf(" (%d merged)", len(g.Members)))
		lines = append(lines, fmt.Sprintf("  %s %s%s: %s", ts, speaker, badge, g.Text))
	}
	return m.window(lines)
}

func (m Model) renderSpeakers() string {
	store := m.engine.Store()
	segments := store.Segments()
	colors := transcript.SpeakerColors(segments)
	excluded := m.engine.ExcludedSpeakers()
	total := transcript.SpeakingTime(segments)

	var lines []string
	for i, name := range store.Speakers() {
		own := transcript.SegmentsForSpeaker(segments, name)
		speaking := transcript.SpeakingTime(own)
		share := 0.0
		if total > 0 {
			share = speaking / total * 100
		}

		label := speakerStyle(colors[name]).Render(name)
		if excluded[name] {
			label = excludedStyle.Render(name)
		}
		lines = append(lines, fmt.Sprintf("  %d. %s  %d segments · %s · %.0f%%",
			i+1, label, len(own), formatClock(speaking), share))
	}
	lines = append(lines, "", dimStyle.Render("  Press 1-9 to hide or show a speaker."))
	return m.window(lines)
}

func (m Model) renderVisualization() string {
	store := m.engine.Store()
	segments := store.Segments()
	colors := transcript.SpeakerColors(segments)
	total := transcript.SpeakingTime(segments)

	barWidth := max(10, m.width-30)

	var lines []string
	for _, name := range store.Speakers() {
		speaking := transcript.SpeakingTime(transcript.SegmentsForSpeaker(segments, name))
		filled := 0
		if total > 0 {
			filled = int(speaking / total * float64(barWidth))
		}
		bar := speakerStyle(colors[name]).Render(strings.Repeat("█", filled)) +
			dimStyle.Render(strings.Repeat("░", barWidth-filled))
		lines = append(lines, fmt.Sprintf("  %-12s %s %s", name, bar, formatClock(speaking)))
	}
	return m.window(lines)
}

func (m Model) window(lines []string) string {
	visible := m.visibleLines()
	if len(lines) <= visible {
		return strings.Join(lines, "\n")
	}
	start := min(m.scroll, len(lines)-visible)
	return strings.Join(lines[start:start+visible], "\n")
}

func (m Model) renderFooter() string {
	bindings := [][2]string{
		{"space", "play"},
		{"←/→", "seek"},
		{"/", "search"},
		{"tab", "view"},
		{"c", "consolidate"},
		{"+/-", "gap"},
		{"t/s/e", "export"},
		{"q", "quit"},
	}

	var parts []string
	for _, b := range bindings {
		parts = append(parts, footerKeyStyle.Render(b[0])+footerDescStyle.Render(" "+b[1]))
	}
	return strings.Join(parts, "  ")
}

func speakerStyle(hex string) lipgloss.Style {
	if hex == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true)
}
