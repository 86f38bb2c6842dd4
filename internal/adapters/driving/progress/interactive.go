package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	bar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dinjou/inconfluential/internal/adapters/driving/styles"
	"github.com/dinjou/inconfluential/internal/core/domain"
	"github.com/dinjou/inconfluential/internal/core/ports/driven"
)

const barWidth = 40

type (
	spaceStartedMsg struct {
		space string
		total int
	}
	batchStartedMsg struct {
		space string
		batch int
		pages int
	}
	pageProcessedMsg struct {
		title   string
		changed bool
	}
	rateLimitedMsg struct {
		wait    time.Duration
		attempt int
	}
	spaceFinishedMsg struct {
		result domain.SpaceResult
	}
)


// model is the bubbletea model behind Interactive. It has no animation
// state; bars are rendered from counters on every View.
type model struct {
	space string

	totalBatches int
	batch        int

	batchPages int
	pagesDone  int
	written    int
	current    string

	status string

	styles   *styles.Styles
	batchBar bar.Model
	pageBar  bar.Model
}

func newModel() model {
	s := styles.DefaultStyles()
	theme := s.Theme()
	return model{
		styles:   s,
		batchBar: bar.New(bar.WithSolidFill(string(theme.Primary)), bar.WithWidth(barWidth)),
		pageBar:  bar.New(bar.WithSolidFill(string(theme.Secondary)), bar.WithWidth(barWidth)),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := min(barWidth, max(msg.Width-20, 10))
		m.batchBar.Width = w
		m.pageBar.Width = w

	case spaceStartedMsg:
		m.space = msg.space
		m.totalBatches = msg.total
		m.batch, m.batchPages, m.pagesDone, m.written = 0, 0, 0, 0
		m.current, m.status = "", ""

	case batchStartedMsg:
		m.batch = msg.batch
		m.batchPages = msg.pages
		m.pagesDone = 0
		m.status = ""

	case pageProcessedMsg:
		m.pagesDone++
		m.current = msg.title
		if msg.changed {
			m.written++
		}

	case rateLimitedMsg:
		m.status = m.styles.Warning.Render(fmt.Sprintf("Rate limited, retrying in %s (attempt %d)", msg.wait, msg.attempt))

	case spaceFinishedMsg:
		line := m.styles.Success.Render("✓ ") + summaryLine(msg.result)
		if msg.result.Partial || msg.result.PagesFailed > 0 {
			line = m.styles.Error.Render("! ") + summaryLine(msg.result)
		}
		m.space = ""
		return m, tea.Println(line)
	}
	return m, nil
}

func (m model) View() string {
	if m.space == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Exporting " + m.space))
	b.WriteString("\n")

	b.WriteString(m.batchBar.ViewAs(ratio(m.batch, m.totalBatches)))
	b.WriteString(m.styles.Muted.Render("  batch " + batchLabel(m.batch, m.totalBatches)))
	b.WriteString("\n")

	b.WriteString(m.pageBar.ViewAs(ratio(m.pagesDone, m.batchPages)))
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  page %d/%d", m.pagesDone, m.batchPages)))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.status)
	} else if m.current != "" {
		b.WriteString(m.styles.Muted.Render(m.current))
	}
	b.WriteString("\n")
	return b.String()
}

func ratio(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return min(float64(n)/float64(total), 1)
}

// Interactive renders progress bars with a bubbletea program. Start must
// be called before the run and Stop after it.
type Interactive struct {
	program *tea.Program
	done    chan struct{}

	once sync.Once
	err  error
}

var _ driven.ProgressReporter = (*Interactive)(nil)

// NewInteractive creates a reporter drawing to w, normally a terminal.
// The program reads no input and leaves signal handling to the caller.
func NewInteractive(w io.Writer) *Interactive {
	return &Interactive{
		program: tea.NewProgram(newModel(),
			tea.WithOutput(w),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}
}

// Start runs the program in the background.
func (i *Interactive) Start() {
	go func() {
		defer close(i.done)
		_, i.err = i.program.Run()
	}()
}

// Stop ends the program and waits for the terminal to be restored.
func (i *Interactive) Stop() error {
	i.once.Do(func() {
		i.program.Quit()
		<-i.done
	})
	return i.err
}

func (i *Interactive) SpaceStarted(spaceKey string, totalBatches int) {
	i.program.Send(spaceStartedMsg{space: spaceKey, total: totalBatches})
}

func (i *Interactive) BatchStarted(spaceKey string, batch, pages int) {
	i.program.Send(batchStartedMsg{space: spaceKey, batch: batch, pages: pages})
}

func (i *Interactive) PageProcessed(_, title string, changed bool) {
	i.program.Send(pageProcessedMsg{title: title, changed: changed})
}

func (i *Interactive) RateLimited(_ string, wait time.Duration, attempt int) {
	i.program.Send(rateLimitedMsg{wait: wait, attempt: attempt})
}

func (i *Interactive) SpaceFinished(result domain.SpaceResult) {
	i.program.Send(spaceFinishedMsg{result: result})
}
