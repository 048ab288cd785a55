package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kiara-243/soundcloud-scraper/internal/tasks"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ConfirmView ViewState = iota
	ScrapeView
	ResultView
	DetailView
)

const (
	progressBuffer = 50
	barWidth       = 30
	logLines       = 8
)

// Engine runs a scrape over inputs, reporting progress on the channel.
//
// [tasks.ScrapeEngine] satisfies it.
type Engine interface {
	Run(ctx context.Context, progress chan<- tasks.ProgressUpdate, inputs []string) (*tasks.RunResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	engine      Engine
	inputs      []string
	width       int
	height      int
	spinner     spinner.Model
	progress    tasks.ProgressUpdate
	log         []string
	outcomeList list.Model
	recordList  list.Model
	updates     <-chan tasks.ProgressUpdate
	done        <-chan Msg
	cancel      context.CancelFunc
	stopping    bool
	result      *tasks.RunResult
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model that scrapes inputs with engine once confirmed.
func NewModel(ctx context.Context, engine Engine, inputs []string) *Model {
	return &Model{
		ctx:     ctx,
		view:    ConfirmView,
		engine:  engine,
		inputs:  inputs,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(NewStyle("#FF5500"))),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Result returns the last completed run and its error, if any.
func (m *Model) Result() (*tasks.RunResult, error) {
	return m.result, m.err
}

// Init has nothing to fetch; the run starts from the confirm view.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.outcomeList.Width() > 0 {
			m.outcomeList.SetSize(m.listSize())
		}
		if m.recordList.Width() > 0 {
			m.recordList.SetSize(m.listSize())
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ScrapeView:
			if key.Matches(msg, m.keys.quit) {
				m.stop()
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != ScrapeView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		m.progress = update
		if update.Phase != tasks.Classify && update.Message != "" {
			m.log = append(m.log, update.Message)
			if len(m.log) > logLines {
				m.log = m.log[len(m.log)-logLines:]
			}
		}
		return m, waitForProgress(m.updates, m.done)

	case MsgRunComplete:
		done := msg.data.(runComplete)
		m.result, m.err = done.result, done.err
		m.updates, m.done = nil, nil
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.view = ResultView
		m.outcomeList = m.newOutcomeList()
		if m.stopping {
			m.stopping = false
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ConfirmView:
		return m.renderConfirm()
	case ScrapeView:
		return m.renderScrape()
	case ResultView:
		return m.renderResult()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.no):
		return m, tea.Quit
	case key.Matches(msg, m.keys.yes):
		if len(m.inputs) == 0 {
			return m, nil
		}
		return m, m.startScrape()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.outcomeList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.outcomeList, cmd = m.outcomeList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = ConfirmView
		m.result, m.err = nil, nil
		m.log = nil
		m.progress = tasks.ProgressUpdate{}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.outcomeList.SelectedItem().(outcomeItem); ok && len(item.outcome.Records) > 0 {
			m.recordList = m.newRecordList(item)
			m.view = DetailView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.outcomeList, cmd = m.outcomeList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ResultView
		return m, nil
	}

	var cmd tea.Cmd
	m.recordList, cmd = m.recordList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ResultView:
		m.outcomeList, cmd = m.outcomeList.Update(msg)
	case DetailView:
		m.recordList, cmd = m.recordList.Update(msg)
	}
	return m, cmd
}

func (m *Model) newOutcomeList() list.Model {
	var outcomes []tasks.Outcome
	if m.result != nil {
		outcomes = m.result.Outcomes
	}
	items := make([]list.Item, len(outcomes))
	for i, out := range outcomes {
		items[i] = outcomeItem{outcome: out}
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Scrape Outcomes"
	l.SetSize(m.listSize())
	return l
}

func (m *Model) newRecordList(item outcomeItem) list.Model {
	items := make([]list.Item, len(item.outcome.Records))
	for i, rec := range item.outcome.Records {
		items[i] = recordItem{record: rec}
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("Records from %s", item.outcome.URL)
	l.SetSize(m.listSize())
	return l
}

func (m *Model) listSize() (int, int) {
	return max(m.width-4, 0), max(m.height-8, 0)
}

// stop cancels the running engine. The program quits once the partial result
// arrives, so [Model.Result] still reports it along with the context error.
func (m *Model) stop() {
	if m.stopping || m.cancel == nil {
		return
	}
	m.stopping = true
	m.cancel()
}

// startScrape runs the engine on its own goroutine. The progress channel is
// closed once Run returns, after which the result is delivered on done.
func (m *Model) startScrape() tea.Cmd {
	m.view = ScrapeView
	m.progress = tasks.ProgressUpdate{Total: len(m.inputs)}

	progress := make(chan tasks.ProgressUpdate, progressBuffer)
	done := make(chan Msg, 1)
	inputs := append([]string(nil), m.inputs...)

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel

	go func() {
		result, err := m.engine.Run(ctx, progress, inputs)
		close(progress)
		done <- runCompleteMsg(result, err)
	}()

	m.updates, m.done = progress, done
	return tea.Batch(m.spinner.Tick, waitForProgress(progress, done))
}

// waitForProgress yields the next update, or the completion message once the
// progress channel is closed.
func waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Scrape %d SoundCloud URLs?", len(m.inputs)))

	var b strings.Builder
	for i, u := range m.inputs {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, u)
	}
	if len(m.inputs) == 0 {
		b.WriteString(styles.warn.Render("No URLs queued") + "\n")
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), helpView)
}

func (m *Model) renderScrape() string {
	title := styles.title.Render("Scraping SoundCloud")

	var phase string
	switch m.progress.Phase {
	case tasks.Resolve:
		phase = "Resolving URL..."
	case tasks.FetchTrack:
		phase = "Fetching track..."
	case tasks.FetchComments:
		phase = "Fetching comments..."
	case tasks.FetchPlaylist:
		phase = "Fetching playlist..."
	case tasks.FetchUser:
		phase = "Fetching user..."
	case tasks.SearchTracks:
		phase = "Searching tracks..."
	case tasks.Done:
		phase = "Finishing..."
	default:
		phase = "Processing..."
	}
	if m.stopping {
		phase = "Stopping..."
	}

	bar := renderBar(m.progress.Step, m.progress.Total, barWidth)
	logView := styles.help.Render(strings.Join(m.log, "\n"))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})

	return fmt.Sprintf("%s\n%s %s\n%s\n\n%s\n\n%s", title, m.spinner.View(), phase, bar, logView, helpView)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.result == nil {
		msg := "No result available"
		if m.err != nil {
			msg = fmt.Sprintf("Scrape failed: %v", m.err)
		}
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(msg), helpView)
	}

	var header string
	switch {
	case m.err != nil:
		header = styles.warn.Render(fmt.Sprintf("Scrape stopped: %v", m.err))
	case m.result.Failed > 0:
		header = styles.warn.Render("Scrape finished with failures")
	default:
		header = styles.ok.Render("✓ Scrape Complete!")
	}

	summary := fmt.Sprintf(
		"Records: %d  OK: %d  Failed: %d  Skipped: %d  Pages: %d  Items: %d",
		len(m.result.Records), m.result.Succeeded, m.result.Failed, m.result.Skipped,
		m.result.Pages, m.result.Items,
	)
	if m.result.RunID != "" {
		summary += fmt.Sprintf("\nRun: %s", m.result.RunID)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", header, summary, m.outcomeList.View(), helpView)
}

func (m *Model) renderDetail() string {
	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.recordList.View(), helpView)
}

// renderBar draws a fixed-width progress bar for step out of total.
func renderBar(step, total, width int) string {
	if total <= 0 {
		return fmt.Sprintf("[%s] 0/0", strings.Repeat("·", width))
	}
	step = min(max(step, 0), total)
	filled := width * step / total
	return fmt.Sprintf("[%s%s] %d/%d",
		styles.ok.Render(strings.Repeat("█", filled)),
		strings.Repeat("·", width-filled),
		step, total,
	)
}
