package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"psfmt/internal/pipeline"
)

// maxActiveRows bounds the list of in-flight files shown under the counters.
const maxActiveRows = 8

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	prog    progress.Model
	files   map[string]*fileItem
	order   []string
	counts  map[pipeline.Status]int
	errors  []string
	width   int
	done    bool
}

type fileItem struct {
	path   string
	stage  pipeline.Stage
	status pipeline.Status
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders formatting
// progress for files. The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		files:   make(map[string]*fileItem, len(files)),
		counts:  make(map[pipeline.Status]int),
		width:   80,
	}
	for _, f := range files {
		m.track(f)
	}
	return m
}

func (m *progressModel) track(path string) *fileItem {
	if it, ok := m.files[path]; ok {
		return it
	}
	it := &fileItem{path: path, status: pipeline.StatusQueued}
	m.files[path] = it
	m.order = append(m.order, path)
	return it
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) finished() int {
	n := 0
	for _, it := range m.files {
		if it.status.Final() {
			n++
		}
	}
	return n
}

func (m *progressModel) View() string {
	if len(m.order) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s %d/%d", m.title, m.finished(), len(m.order))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(m.countsLine())
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	rows := 0
	for _, path := range m.order {
		it := m.files[path]
		if it.status != pipeline.StatusWorking {
			continue
		}
		if rows == maxActiveRows {
			b.WriteString("  ...\n")
			break
		}
		label := styleStatus(it.status).Render(fmt.Sprintf("%10s", stageLabel(it.stage)))
		fmt.Fprintf(&b, "  %s %s\n", label, truncate(path, nameWidth))
		rows++
	}
	for _, line := range m.errors {
		b.WriteString(styleStatus(pipeline.StatusError).Render("  error ") + truncate(line, nameWidth+4) + "\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) countsLine() string {
	parts := make([]string, 0, 4)
	for _, st := range []pipeline.Status{pipeline.StatusDone, pipeline.StatusChanged, pipeline.StatusCached, pipeline.StatusError} {
		if n := m.counts[st]; n > 0 {
			parts = append(parts, styleStatus(st).Render(fmt.Sprintf("%s %d", st, n)))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	if ev.File == "" {
		return nil
	}
	it := m.track(ev.File)
	if it.status.Final() {
		return nil
	}
	it.stage, it.status = ev.Stage, ev.Status
	if ev.Status.Final() {
		m.counts[ev.Status]++
		if ev.Status == pipeline.StatusError && ev.Err != nil {
			m.errors = append(m.errors, fmt.Sprintf("%s: %v", ev.File, ev.Err))
		}
	}

	total := 0.0
	for _, f := range m.files {
		if f.status.Final() {
			total++
		} else {
			total += progressFromStage(f.stage, f.status)
		}
	}
	return m.prog.SetPercent(total / float64(len(m.files)))
}

func progressFromStage(stage pipeline.Stage, status pipeline.Status) float64 {
	if status == pipeline.StatusQueued {
		return 0
	}
	switch stage {
	case pipeline.StageRead:
		return 0.1
	case pipeline.StageParse:
		return 0.3
	case pipeline.StageFormat:
		return 0.6
	case pipeline.StageWrite:
		return 0.9
	default:
		return 0
	}
}

func stageLabel(stage pipeline.Stage) string {
	switch stage {
	case pipeline.StageRead:
		return "reading"
	case pipeline.StageParse:
		return "parsing"
	case pipeline.StageFormat:
		return "formatting"
	case pipeline.StageWrite:
		return "writing"
	default:
		return ""
	}
}

func styleStatus(status pipeline.Status) lipgloss.Style {
	switch status {
	case pipeline.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case pipeline.StatusChanged:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case pipeline.StatusCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	case pipeline.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case pipeline.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
