package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/budget"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/bus"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/composer"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/optimizer"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/trip"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/types"
)

// stage identifies which checkpoint a halted run is parked at.
type stage string

const (
	stageSuggestions stage = "suggestions"
	stageBudget      stage = "budget"
	stageApproval    stage = "approval"
)

// optimizerOutcome carries the optimizer goroutine's terminal result back to
// the driving Resume call.
type optimizerOutcome struct {
	state optimizer.State
	err   error
}

// run is the mutable state of one pipeline execution. It lives from the Run
// call that created it until the pipeline completes, aborts, or is cancelled,
// surviving across Resume calls while halted at a checkpoint.
type run struct {
	id    types.ID
	query trip.Query
	stage stage
	token string

	// lifeCtx outlives the individual Run/Resume calls; it bounds the
	// optimizer goroutine so cancelling the run unblocks its gate.
	lifeCtx  context.Context
	lifeStop context.CancelFunc

	research   composer.ExecutionContext
	forward    composer.ExecutionContext
	bookings   trip.Bookings
	assessment budget.Assessment
	highlights []string
	speedup    float64
	timings    []composer.StepTiming

	// Optimizer coordination. The loop runs in its own goroutine; each
	// proposal crosses proposalCh, each human verdict crosses decisionCh,
	// and the terminal state arrives on doneCh.
	proposalCh   chan optimizer.Proposal
	decisionCh   chan optimizer.Decision
	doneCh       chan optimizerOutcome
	optimization *optimizer.State

	mu       sync.Mutex
	critical *bus.Message
}

func newRun(query trip.Query) *run {
	ctx, stop := context.WithCancel(context.Background())
	return &run{
		id:         types.NewID(),
		query:      query,
		lifeCtx:    ctx,
		lifeStop:   stop,
		proposalCh: make(chan optimizer.Proposal),
		decisionCh: make(chan optimizer.Decision),
		doneCh:     make(chan optimizerOutcome, 1),
	}
}

// markCritical records a critical-priority message against the run. The first
// one wins; the pipeline aborts at the next phase boundary.
func (r *run) markCritical(msg bus.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.critical == nil {
		r.critical = &msg
	}
}

// takeCritical returns the recorded critical message, if any.
func (r *run) takeCritical() *bus.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.critical
}

// newResumeToken mints a single-use opaque token for a halted run, bound to
// the run identity and the moment of issue.
func newResumeToken(id types.ID) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%d", id, uuid.NewString(), time.Now().UnixNano())))
	return hex.EncodeToString(sum[:])
}

// registry tracks in-flight runs. Halted runs are reachable by their current
// resume token; every live run is reachable for critical-message marking.
type registry struct {
	mu      sync.Mutex
	byToken map[string]*run
	active  map[*run]struct{}
}

func newRegistry() *registry {
	return &registry{
		byToken: make(map[string]*run),
		active:  make(map[*run]struct{}),
	}
}

func (g *registry) add(r *run) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active[r] = struct{}{}
}

// park rotates the run's resume token and files it under the new one. The
// previous token, if any, stops resolving.
func (g *registry) park(r *run, s stage) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r.token != "" {
		delete(g.byToken, r.token)
	}
	r.stage = s
	r.token = newResumeToken(r.id)
	g.byToken[r.token] = r
	return r.token
}

func (g *registry) lookup(token string) *run {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.byToken[token]
}

// remove retires a finished run: its token stops resolving, it no longer
// receives critical marks, and its lifetime context is cancelled so any
// optimizer goroutine blocked on the gate unwinds.
func (g *registry) remove(r *run) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r.token != "" {
		delete(g.byToken, r.token)
	}
	delete(g.active, r)
	r.lifeStop()
}

// markAll records a critical message against every live run.
func (g *registry) markAll(msg bus.Message) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for r := range g.active {
		r.markCritical(msg)
	}
}
