package scantui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentwarden/warden/internal/scanpipeline"
)

// startupGrace is how long Start waits for the Bubble Tea program's first
// render before returning, so the first progress event isn't sent into a
// program that hasn't attached its input/output yet.
const startupGrace = 50 * time.Millisecond

// shutdownGrace is how long Finish waits after sending DoneMsg, so the final
// frame (including any error) renders before the caller's process exits.
const shutdownGrace = 100 * time.Millisecond

// Reporter drives a scantui.Model as a running Bubble Tea program and
// implements scanpipeline.ProgressReporter, so a Pipeline can report
// progress without knowing anything about the terminal.
type Reporter struct {
	program *tea.Program

	mu      sync.Mutex
	running bool
}

// NewReporter constructs a Reporter for a run over targetNames, titled
// title. extraOpts is appended after the package's own defaults (no signal
// handler, since scanpipeline.WithSignalCancel already owns SIGINT/TERM/HUP)
// -- mainly used by tests to redirect input/output away from a real
// terminal. Call Start before handing the Reporter to a Pipeline, and
// Finish once the run completes.
func NewReporter(title string, targetNames []string, extraOpts ...tea.ProgramOption) *Reporter {
	model := New(title, targetNames)
	opts := append([]tea.ProgramOption{tea.WithoutSignalHandler()}, extraOpts...)
	return &Reporter{program: tea.NewProgram(model, opts...)}
}

// Start launches the progress program in the background. Safe to call only
// once per Reporter.
func (r *Reporter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true

	go func() {
		_, _ = r.program.Run()
	}()
	time.Sleep(startupGrace)
}

// TargetStarted implements scanpipeline.ProgressReporter.
func (r *Reporter) TargetStarted(name string) {
	r.send(StartedMsg{Name: name})
}

// TargetFinished implements scanpipeline.ProgressReporter.
func (r *Reporter) TargetFinished(name string, findingCount int, err error) {
	r.send(FinishedMsg{Name: name, Findings: findingCount, Err: err})
}

// Finish reports the run's terminal outcome and waits for the final frame
// to render before returning.
func (r *Reporter) Finish(err error) {
	r.send(DoneMsg{Err: err})

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	time.Sleep(shutdownGrace)
}

var _ scanpipeline.ProgressReporter = (*Reporter)(nil)

func (r *Reporter) send(msg tea.Msg) {
	r.mu.Lock()
	running := r.running
	r.mu.Unlock()
	if !running {
		return
	}
	r.program.Send(msg)
}
