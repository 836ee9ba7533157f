package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/raphaelgruber/filmwise/internal/memory"
	"github.com/raphaelgruber/filmwise/internal/metrics"
	"github.com/raphaelgruber/filmwise/internal/models"
	"github.com/raphaelgruber/filmwise/internal/tools"
)

// State is a turn's position in the processing pipeline.
type State string

const (
	StateReceived         State = "received"
	StateContextAssembled State = "context_assembled"
	StateRouted           State = "routed"
	StateToolsExecuted    State = "tools_executed"
	StateCompleted        State = "completed"
	StatePersisted        State = "persisted"
	StateReplied          State = "replied"
	StateFailed           State = "failed"
)

// failedReply is the user-visible text for a turn that hit an oracle
// error. The turn is never silently dropped.
const failedReply = "I'm sorry, I'm having trouble answering right now. Please try again in a moment."

// systemPrompt frames every completion request.
const systemPrompt = `You are an intelligent film assistant. You help users discover and learn about films.

Film search results, when available, are included in the request. Ground your answer in them; do not invent films or ratings. Personalize recommendations using the user's stated preferences when available. Be helpful and conversational.`

// Oracle is the completion collaborator. The orchestrator makes at most
// one call per turn and never retries.
type Oracle interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Turn is the outcome of processing one utterance.
type Turn struct {
	State   State
	Reply   string
	Plan    []tools.Call
	Results []tools.Result
	Window  models.ContextWindow
}

// Orchestrator runs the per-turn state machine: Received through Replied,
// with Failed reachable on oracle errors. Turns for the same user are
// serialized; turns for different users run concurrently.
type Orchestrator struct {
	memory    *memory.Store
	registry  *tools.Registry
	assembler *Assembler
	extractor *Extractor
	oracle    Oracle
	collector *metrics.Collector
	logger    *slog.Logger

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// New creates the orchestrator. The collector may be nil.
func New(store *memory.Store, registry *tools.Registry, assembler *Assembler, extractor *Extractor, oracle Oracle, collector *metrics.Collector, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		memory:    store,
		registry:  registry,
		assembler: assembler,
		extractor: extractor,
		oracle:    oracle,
		collector: collector,
		logger:    logger,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing one user's turns.
func (o *Orchestrator) userLock(userID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		o.userLocks[userID] = lock
	}
	return lock
}

// Process handles one user turn end to end and returns the reply. A
// second turn for the same user blocks until this one's persistence
// finished, so confidence merges never race.
func (o *Orchestrator) Process(ctx context.Context, userID, utterance string) (Turn, error) {
	lock := o.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	turn := Turn{State: StateReceived}
	o.logger.Info("turn received", "user_id", userID, "utterance", truncate(utterance, 80))

	if err := o.memory.TouchUser(ctx, userID); err != nil {
		o.logger.Warn("touch user failed", "user_id", userID, "error", err)
	}

	turn.Window = o.assembler.Assemble(ctx, userID)
	turn.State = StateContextAssembled

	turn.Plan = o.route(utterance)
	turn.State = StateRouted

	var toolNote string
	turn.Results, toolNote = o.executeTools(ctx, turn.Plan)
	turn.State = StateToolsExecuted

	reply, err := o.complete(ctx, utterance, turn.Window, turn.Results, toolNote)
	if err != nil {
		turn.State = StateFailed
		turn.Reply = failedReply
		o.appendTurn(ctx, userID, models.RoleUser, utterance, nil)
		o.logger.Error("turn failed", "user_id", userID, "error", err)
		return turn, err
	}
	turn.Reply = reply
	turn.State = StateCompleted

	o.persist(ctx, userID, utterance, turn)
	turn.State = StatePersisted

	turn.State = StateReplied
	o.logger.Info("turn replied", "user_id", userID, "tools", len(turn.Results))
	return turn, nil
}

// route derives the tool plan. No matching tool is not an error at this
// level; the turn proceeds as plain conversation.
func (o *Orchestrator) route(utterance string) []tools.Call {
	start := time.Now()
	plan, err := Route(utterance)
	o.record(metrics.OpRoute, time.Since(start))

	if err != nil {
		if !errors.Is(err, ErrNoToolMatch) {
			o.logger.Warn("routing failed", "error", err)
		}
		return nil
	}
	return plan
}

// executeTools runs the plan in order. A failing call aborts the rest of
// the chain; results gathered so far are kept and the failure becomes a
// note in the completion request.
func (o *Orchestrator) executeTools(ctx context.Context, plan []tools.Call) ([]tools.Result, string) {
	var results []tools.Result
	for i, call := range plan {
		start := time.Now()
		res, err := o.registry.Execute(ctx, call)
		o.record(metrics.OpTool, time.Since(start))

		if err != nil {
			note := fmt.Sprintf("Note: the %s lookup failed; %d of %d planned lookups completed.",
				call.Kind, i, len(plan))
			o.logger.Warn("tool execution failed", "tool", call.Kind, "error", err)
			return results, note
		}
		results = append(results, res)
	}
	return results, ""
}

// complete folds context, tool output, and the utterance into one
// completion request. This is the only step that blocks on the network.
func (o *Orchestrator) complete(ctx context.Context, utterance string, win models.ContextWindow, results []tools.Result, toolNote string) (string, error) {
	var b strings.Builder

	if rendered := win.Render(); rendered != "" {
		b.WriteString("=== User Profile & Recent Conversation ===\n")
		b.WriteString(rendered)
		b.WriteString("\n\n")
	}
	for _, res := range results {
		b.WriteString(res.Summary())
		b.WriteString("\n\n")
	}
	if toolNote != "" {
		b.WriteString(toolNote)
		b.WriteString("\n\n")
	}
	b.WriteString("User: ")
	b.WriteString(utterance)

	prompt := b.String()
	start := time.Now()
	reply, err := o.oracle.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		o.record(metrics.OpOracle, time.Since(start))
		return "", fmt.Errorf("complete turn: %w", err)
	}
	o.recordOracle(time.Since(start), prompt, reply)
	return reply, nil
}

// persist appends the turn's log entries and runs preference extraction.
// Failures here degrade to warnings; the reply is already determined.
func (o *Orchestrator) persist(ctx context.Context, userID, utterance string, turn Turn) {
	start := time.Now()

	o.appendTurn(ctx, userID, models.RoleUser, utterance, nil)
	for _, res := range turn.Results {
		name := string(res.Call.Kind)
		o.appendTurn(ctx, userID, models.RoleTool, res.Summary(), &name)
	}
	o.appendTurn(ctx, userID, models.RoleAssistant, turn.Reply, nil)
	o.record(metrics.OpPersist, time.Since(start))

	start = time.Now()
	o.extractor.Extract(ctx, userID, utterance, turn.Plan, turn.Window.Preferences)
	o.record(metrics.OpExtract, time.Since(start))
}

func (o *Orchestrator) appendTurn(ctx context.Context, userID, role, content string, toolName *string) {
	if _, err := o.memory.Append(ctx, userID, role, content, toolName); err != nil {
		o.logger.Warn("append turn failed", "user_id", userID, "role", role, "error", err)
	}
}

func (o *Orchestrator) record(op string, d time.Duration) {
	if o.collector != nil {
		o.collector.RecordTiming(op, d)
	}
}

func (o *Orchestrator) recordOracle(d time.Duration, prompt, reply string) {
	if o.collector != nil {
		o.collector.RecordLLMUsage(metrics.OpOracle, d, int64(len(prompt)/4), int64(len(reply)/4))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
