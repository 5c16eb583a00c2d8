// Package ui renders the image search pipeline as an interactive terminal program.
package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/NasaLens/internal/broadcast"
	"github.com/yildizm/NasaLens/internal/logger"
	"github.com/yildizm/NasaLens/internal/presentation"
	"github.com/yildizm/NasaLens/internal/viewmodel"
)

// ErrMissingItem is returned when details are requested without an item
var ErrMissingItem = errors.New("open details: no item")

// DefaultToastDuration is how long an error toast stays visible
const DefaultToastDuration = 4 * time.Second

// Pipeline is the part of the view model the program drives
type Pipeline interface {
	Process(intent viewmodel.Intent)
	State() *broadcast.Subscription[viewmodel.ViewState]
	Effects() *broadcast.Subscription[viewmodel.Effect]
}

// TextSource resolves localized interface strings
type TextSource interface {
	Text(key string) string
}

type screen int

const (
	screenList screen = iota
	screenDetail
)

type focus int

const (
	focusSearch focus = iota
	focusList
)

type pageRequest struct {
	query string
	page  int
	// loading is set once the pipeline reports the request in flight
	loading bool
}

// Option configures a Model
type Option func(*Model)

// WithTheme selects a theme by name; unknown names keep the default
func WithTheme(name string) Option {
	return func(m *Model) {
		if theme, ok := ThemeByName(name); ok {
			m.theme = theme
		}
	}
}

// WithNoColor renders without color
func WithNoColor(noColor bool) Option {
	return func(m *Model) {
		m.noColor = noColor
	}
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithToastDuration sets how long error toasts stay visible
func WithToastDuration(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.toastTTL = d
		}
	}
}

// Model is the bubbletea model for the image browser
type Model struct {
	pipeline Pipeline
	text     TextSource
	log      *logger.Logger

	states  *broadcast.Subscription[viewmodel.ViewState]
	effects *broadcast.Subscription[viewmodel.Effect]

	state       viewmodel.ViewState
	received    bool
	initialSent bool
	requested   pageRequest

	screen screen
	focus  focus
	cursor int
	offset int
	detail presentation.DisplayImage

	toast    string
	toastSeq int
	toastTTL time.Duration

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	theme   Theme
	noColor bool
	styles  *Styles

	width  int
	height int
	err    error
}

// NewModel subscribes to the pipeline and builds the program model
func NewModel(p Pipeline, text TextSource, opts ...Option) *Model {
	m := &Model{
		pipeline: p,
		text:     text,
		log:      logger.Nop(),
		theme:    DefaultTheme,
		toastTTL: DefaultToastDuration,
		keys:     newKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		viewport: viewport.New(0, 0),
		state:    viewmodel.InitialState(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.styles = NewStyles(m.theme, m.noColor)
	m.spinner.Style = m.styles.Info

	m.input = textinput.New()
	m.input.Placeholder = text.Text(presentation.KeySearchPlaceholder)
	m.input.Prompt = "› "
	m.input.CharLimit = 256
	m.input.Focus()

	m.states = p.State()
	m.effects = p.Effects()
	return m
}

// Init starts listening to the pipeline
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForState(m.states),
		waitForEffect(m.effects),
	)
}

// Close stops listening to the pipeline
func (m *Model) Close() {
	m.states.Unsubscribe()
	m.effects.Unsubscribe()
}

// Err returns the last contract violation, if any
func (m *Model) Err() error {
	return m.err
}

// Update handles messages and navigation
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)
		return m, nil
	case stateMsg:
		return m, tea.Batch(m.handleState(msg.state), waitForState(m.states))
	case effectMsg:
		return m, tea.Batch(m.handleEffect(msg.effect), waitForEffect(m.effects))
	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil
	case ThemeMsg:
		m.applyTheme(msg)
		return m, nil
	case pipelineClosedMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.screen == screenDetail {
			return m.handleDetailKey(msg)
		}
		if m.focus == focusSearch {
			return m.handleSearchKey(msg)
		}
		return m.handleListKey(msg)
	}

	if m.focus == focusSearch {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.input.Width = max(10, msg.Width-8)
	m.help.Width = msg.Width
	m.viewport.Width = max(20, msg.Width-4)
	m.viewport.Height = max(5, msg.Height-4)
	if m.screen == screenDetail {
		m.viewport.SetContent(m.renderDetailContent())
	}
	m.scrollToCursor()
}

func (m *Model) handleState(state viewmodel.ViewState) tea.Cmd {
	first := !m.received
	m.received = true
	m.state = state

	if first && state.SearchBarText != "" {
		m.input.SetValue(state.SearchBarText)
	}
	if m.cursor >= len(state.Items) {
		m.cursor = max(0, len(state.Items)-1)
	}
	m.scrollToCursor()

	if !state.HasInitialLoadCompleted && !state.IsLoading && !m.initialSent {
		m.initialSent = true
		m.log.Debug("initial search for %q", state.CurrentQuery)
		m.pipeline.Process(viewmodel.Search{Query: state.CurrentQuery})
		return nil
	}
	if m.settlePage(state) {
		return nil
	}
	m.maybePaginate()
	return nil
}

// settlePage tracks the outstanding page request. It reports true when the
// request finished without advancing NextPage; the request is forgotten so
// revisiting the last item asks for the page again.
func (m *Model) settlePage(state viewmodel.ViewState) bool {
	if m.requested.page == 0 {
		return false
	}
	if state.IsLoading {
		m.requested.loading = true
		return false
	}
	if !m.requested.loading {
		return false
	}
	failed := state.CurrentQuery == m.requested.query && state.NextPage == m.requested.page
	m.requested = pageRequest{}
	return failed
}

func (m *Model) handleEffect(effect viewmodel.Effect) tea.Cmd {
	switch e := effect.(type) {
	case viewmodel.ShowError:
		m.toastSeq++
		m.toast = e.Message
		seq := m.toastSeq
		return tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
			return toastExpiredMsg{seq: seq}
		})
	case viewmodel.OpenDetails:
		if err := m.openDetails(e.Item); err != nil {
			m.err = err
			m.log.Error("details: %v", err)
		}
	}
	return nil
}

func (m *Model) openDetails(item presentation.DisplayImage) error {
	if item.IsZero() {
		return ErrMissingItem
	}
	m.detail = item
	m.screen = screenDetail
	m.viewport.SetContent(m.renderDetailContent())
	m.viewport.GotoTop()
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		m.submitSearch()
		return m, nil
	case msg.Type == tea.KeyEsc:
		m.focusList()
		return m, nil
	case msg.Type == tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	case msg.Type == tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.pipeline.Process(viewmodel.UpdateSearchQuery{Text: after})
	}
	return m, cmd
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), msg.Type == tea.KeyEsc:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Open):
		m.tapSelected()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.screen = screenList
		m.detail = presentation.DisplayImage{}
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) submitSearch() {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return
	}
	m.requested = pageRequest{}
	m.cursor = 0
	m.offset = 0
	m.log.Debug("search %q", query)
	m.pipeline.Process(viewmodel.Search{Query: query})
	m.focusList()
}

func (m *Model) focusList() {
	m.focus = focusList
	m.input.Blur()
}

func (m *Model) tapSelected() {
	if m.cursor < 0 || m.cursor >= len(m.state.Items) {
		return
	}
	m.pipeline.Process(viewmodel.TapItem{Item: m.state.Items[m.cursor]})
}

func (m *Model) moveCursor(delta int) {
	if len(m.state.Items) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.state.Items)-1)
	m.scrollToCursor()
	m.maybePaginate()
}

// maybePaginate requests the next page once the last item is selected
func (m *Model) maybePaginate() {
	n := len(m.state.Items)
	if n == 0 || m.cursor != n-1 || !m.state.CanPaginate() {
		return
	}
	req := pageRequest{query: m.state.CurrentQuery, page: m.state.NextPage}
	if req.query == m.requested.query && req.page == m.requested.page {
		return
	}
	m.requested = req
	m.log.DebugWithFields("paginate", []logger.Field{logger.Query(req.query), logger.Page(req.page)})
	m.pipeline.Process(viewmodel.Paginate{Page: req.page, Query: req.query})
}

func (m *Model) scrollToCursor() {
	rows := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// listHeight is the number of result rows that fit between the chrome lines
func (m *Model) listHeight() int {
	if m.height == 0 {
		return 20
	}
	return max(1, m.height-10)
}

func (m *Model) applyTheme(msg ThemeMsg) {
	theme, ok := ThemeByName(msg.Name)
	if !ok {
		m.log.Warn("unknown theme %q, keeping %s", msg.Name, m.theme.Name)
		return
	}
	m.theme = theme
	m.noColor = msg.NoColor
	m.styles = NewStyles(m.theme, m.noColor)
	m.spinner.Style = m.styles.Info
	if m.screen == screenDetail {
		m.viewport.SetContent(m.renderDetailContent())
	}
}

// NewProgram wraps m in a full-screen program bound to ctx
func NewProgram(ctx context.Context, m *Model, opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	return tea.NewProgram(m, opts...)
}
