package tui

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/riemann2d/internal/config"
	apperrors "github.com/agbru/riemann2d/internal/errors"
	"github.com/agbru/riemann2d/internal/metrics"
	"github.com/agbru/riemann2d/internal/refinement"
	"github.com/agbru/riemann2d/internal/sysmon"
)

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// bodyHeight returns the available height for the main body panels.
func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

// framesWidth returns the width allocated to the frame list.
func (l LayoutManager) framesWidth() int {
	return l.width * FramesPanelWidthPercent / 100
}

// rightWidth returns the width allocated to the right column.
func (l LayoutManager) rightWidth() int {
	return l.width - l.framesWidth()
}

// metricsHeight returns the height allocated to the metrics panel.
func (l LayoutManager) metricsHeight() int {
	return min(MetricsPanelHeight, l.bodyHeight()/3)
}

// chartHeight returns the height allocated to the convergence chart.
func (l LayoutManager) chartHeight() int {
	return min(ChartPanelHeight, l.bodyHeight()/3)
}

// heatmapHeight returns what is left of the right column.
func (l LayoutManager) heatmapHeight() int {
	return l.bodyHeight() - l.metricsHeight() - l.chartHeight()
}

// Layout constants for the dashboard.
const (
	headerHeight            = 1
	footerHeight            = 1
	minBodyHeight           = 6
	FramesPanelWidthPercent = 40
	MetricsPanelHeight      = 6
	ChartPanelHeight        = 10
	tickInterval            = 500 * time.Millisecond
)

// Model is the root bubbletea model of the playback dashboard.
type Model struct {
	header  HeaderModel
	frames  FramesModel
	metrics MetricsModel
	heatmap HeatmapModel
	chart   ChartModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	problem   refinement.Problem
	levels    []refinement.Level
	config    config.AppConfig
	opts      refinement.Options
	outputs   refinement.FrameSink
	memory    *metrics.MemoryCollector
	ref       *programRef
	paused    bool
}

// NewModel creates the dashboard for one run. outputs receives every played
// frame next to the dashboard, for PNG or GIF export; it may be nil.
func NewModel(parentCtx context.Context, problem refinement.Problem, levels []refinement.Level, cfg config.AppConfig, opts refinement.Options, outputs refinement.FrameSink, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	keys := DefaultKeyMap()

	label := problem.Name
	if problem.Expr != "" {
		label += ": " + problem.Expr
	}

	m := Model{
		header:  NewHeaderModel(version, label),
		frames:  NewFramesModel(len(levels)),
		metrics: NewMetricsModel(),
		heatmap: NewHeatmapModel(),
		chart:   NewChartModel(),
		footer:  NewFooterModel(keys),
		keymap:  keys,
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		problem:   problem,
		levels:    levels,
		config:    cfg,
		opts:      opts,
		outputs:   outputs,
		memory:    metrics.NewMemoryCollector(),
		ref:       &programRef{},
	}
	m.applyReferenceVisibility()
	return m
}

// applyReferenceVisibility hides every comparison with the reference when
// the run was started with --no-reference.
func (m *Model) applyReferenceVisibility() {
	hide := m.config.NoReference
	m.frames.SetHideReference(hide)
	m.metrics.SetHideReference(hide)
	m.heatmap.SetHideReference(hide)
	m.chart.SetHideReference(hide)
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startPlaybackCmd(m.ref, m.ctx, m.problem, m.levels, m.config, m.opts, m.outputs, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.frames.SetProgress(msg)
		return m, nil

	case ProgressDoneMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.frames.SetPrecomputed()
		return m, nil

	case FrameMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.frames.Add(msg.Frame)
		m.chart.AddFrame(msg.Frame)
		m.syncSelection()
		return m, nil

	case SummaryMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.chart.SetSummary(msg.Convergence)
		return m, nil

	case ErrorMsg:
		if msg.Generation != m.generation {
			return m, nil // the failed run was restarted
		}
		m.frames.SetError(msg.Err)
		m.footer.SetError(true)
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(sampleMemStatsCmd(m.parentCtx, m.memory), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		m.chart.AddHeapSample(msg.HeapAlloc)
		return m, nil

	case PlaybackCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a restarted run
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a restarted run
		}
		if !m.done && m.parentCtx.Err() != nil {
			m.exitCode = apperrors.ExitCodeFor(m.parentCtx.Err())
		}
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.setPaused(!m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Prev):
		m.frames.Move(-1)
		m.setPaused(true)
		return m, nil

	case key.Matches(msg, m.keymap.Next):
		m.frames.Move(1)
		m.setPaused(true)
		return m, nil

	case key.Matches(msg, m.keymap.First):
		m.frames.Move(-m.frames.Len())
		m.setPaused(true)
		return m, nil

	case key.Matches(msg, m.keymap.Last):
		m.setPaused(false)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		if m.cancel != nil {
			m.cancel()
		}

		m.generation++
		ctx, cancel := context.WithCancel(m.parentCtx)
		m.ctx = ctx
		m.cancel = cancel

		m.header.Reset()
		m.frames.Reset()
		m.chart.Reset()
		m.metrics = NewMetricsModel()
		m.heatmap = NewHeatmapModel()
		m.applyReferenceVisibility()
		m.layoutPanels()
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.setPaused(false)
		m.done = false
		m.exitCode = apperrors.ExitSuccess

		// Exported files belong to the first run only.
		return m, tea.Batch(
			tickCmd(),
			startPlaybackCmd(m.ref, m.ctx, m.problem, m.levels, m.config, m.opts, nil, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)
	}

	return m, nil
}

// setPaused stops or resumes following the playback.
func (m *Model) setPaused(paused bool) {
	m.paused = paused
	m.frames.SetFollow(!paused)
	m.footer.SetPaused(paused)
	m.syncSelection()
}

// syncSelection shows the selected frame in the detail panels.
func (m *Model) syncSelection() {
	cur, prev, ok := m.frames.Current()
	if !ok {
		return
	}
	m.metrics.SetFrame(cur, prev)
	m.heatmap.SetFrame(cur)
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	rightCol := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.heatmap.View(), m.chart.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.frames.View(), rightCol)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.frames.SetSize(m.framesWidth(), m.bodyHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.heatmap.SetSize(m.rightWidth(), m.heatmapHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// Run is the public entry point for the TUI mode. It precomputes the
// levels, plays them in the dashboard and returns the exit code.
func Run(ctx context.Context, problem refinement.Problem, levels []refinement.Level, cfg config.AppConfig, opts refinement.Options, outputs refinement.FrameSink, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, problem, levels, cfg, opts, outputs, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return apperrors.ExitCodeFor(ctx.Err())
		}
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startPlaybackCmd returns a tea.Cmd that precomputes every level, plays
// the frames into the dashboard and outputs, then analyzes convergence.
func startPlaybackCmd(ref *programRef, ctx context.Context, problem refinement.Problem, levels []refinement.Level, cfg config.AppConfig, opts refinement.Options, outputs refinement.FrameSink, gen uint64) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		presenter := &TUIResultPresenter{ref: ref, generation: gen}
		fail := func(err error) tea.Msg {
			return PlaybackCompleteMsg{ExitCode: presenter.HandleRunError(ctx, err, time.Since(start)), Generation: gen}
		}

		frames, err := refinement.ExecuteLevels(ctx, problem, levels, opts, &TUIProgressReporter{ref: ref, generation: gen}, io.Discard)
		if err != nil {
			return fail(err)
		}

		sink := refinement.MultiSink{&TUIFrameSink{ref: ref, generation: gen}}
		if outputs != nil {
			sink = append(sink, outputs)
		}
		if err := refinement.Play(ctx, frames, sink, cfg.Interval); err != nil {
			return fail(err)
		}
		if err := sink.Close(); err != nil {
			return fail(err)
		}

		presOpts := refinement.PresentationOptions{
			Verbose:     cfg.Verbose,
			Details:     cfg.Details,
			NoReference: cfg.NoReference,
			Strict:      cfg.Strict,
		}
		exitCode := refinement.AnalyzeResults(frames, presOpts, presenter, io.Discard)
		return PlaybackCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and the system load and
// returns a MemStatsMsg.
func sampleMemStatsCmd(ctx context.Context, mc *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg{
			MemorySnapshot: mc.Snapshot(),
			NumGoroutine:   runtime.NumGoroutine(),
			System:         sysmon.Sample(ctx),
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
