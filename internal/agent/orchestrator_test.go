package agent

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/filmwise/internal/catalog"
	"github.com/raphaelgruber/filmwise/internal/memory"
	"github.com/raphaelgruber/filmwise/internal/metrics"
	"github.com/raphaelgruber/filmwise/internal/models"
	"github.com/raphaelgruber/filmwise/internal/tools"
)

type oracleStub struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (o *oracleStub) Complete(_ context.Context, _, userPrompt string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prompts = append(o.prompts, userPrompt)
	if o.err != nil {
		return "", o.err
	}
	return o.reply, nil
}

func (o *oracleStub) lastPrompt() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.prompts) == 0 {
		return ""
	}
	return o.prompts[len(o.prompts)-1]
}

func newTestOrchestrator(t *testing.T, oracle Oracle) (*Orchestrator, *memory.Store, string) {
	t.Helper()

	dir := t.TempDir()
	films, err := catalog.Open(filepath.Join(dir, "films.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = films.Close() })
	_, err = films.Seed(context.Background())
	require.NoError(t, err)

	mem, err := memory.Open(filepath.Join(dir, "memory.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mem.Close() })

	userID, err := mem.GetOrCreateUser(context.Background(), "")
	require.NoError(t, err)

	orch := New(
		mem,
		tools.NewRegistry(films, nil),
		NewAssembler(mem, 20, 6000, nil),
		NewExtractor(mem, nil),
		oracle,
		metrics.NewCollector(),
		nil,
	)
	return orch, mem, userID
}

func TestProcessHappyPath(t *testing.T) {
	ctx := context.Background()
	stub := &oracleStub{reply: "The Matrix is a great pick."}
	orch, mem, userID := newTestOrchestrator(t, stub)

	turn, err := orch.Process(ctx, userID, `Tell me about "The Matrix"`)
	require.NoError(t, err)

	assert.Equal(t, StateReplied, turn.State)
	assert.Equal(t, "The Matrix is a great pick.", turn.Reply)
	require.Len(t, turn.Results, 1)
	assert.Equal(t, tools.KindSearchByTitle, turn.Results[0].Call.Kind)

	// Tool output is folded into the completion request.
	assert.Contains(t, stub.lastPrompt(), "Found 1 film(s) for search_by_title")
	assert.Contains(t, stub.lastPrompt(), `User: Tell me about "The Matrix"`)

	// User, tool, and assistant turns are all persisted in order.
	turns, err := mem.Recent(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, models.RoleUser, turns[0].Role)
	assert.Equal(t, models.RoleTool, turns[1].Role)
	require.NotNil(t, turns[1].ToolName)
	assert.Equal(t, "search_by_title", *turns[1].ToolName)
	assert.Equal(t, models.RoleAssistant, turns[2].Role)
}

func TestProcessPlainConversation(t *testing.T) {
	ctx := context.Background()
	stub := &oracleStub{reply: "Hello! Ask me about films."}
	orch, mem, userID := newTestOrchestrator(t, stub)

	turn, err := orch.Process(ctx, userID, "hello there")
	require.NoError(t, err)

	assert.Equal(t, StateReplied, turn.State)
	assert.Empty(t, turn.Plan)
	assert.Empty(t, turn.Results)

	turns, err := mem.Recent(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, models.RoleUser, turns[0].Role)
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
}

func TestProcessOracleFailure(t *testing.T) {
	ctx := context.Background()
	oracleErr := errors.New("oracle unavailable")
	stub := &oracleStub{err: oracleErr}
	orch, mem, userID := newTestOrchestrator(t, stub)

	turn, err := orch.Process(ctx, userID, "show me action movies")
	require.ErrorIs(t, err, oracleErr)

	assert.Equal(t, StateFailed, turn.State)
	assert.Equal(t, failedReply, turn.Reply)

	// Only the user turn is durably recorded on failure.
	turns, recErr := mem.Recent(ctx, userID, 10)
	require.NoError(t, recErr)
	require.Len(t, turns, 1)
	assert.Equal(t, models.RoleUser, turns[0].Role)

	// No preferences are learned from a failed turn.
	prefs, prefErr := mem.GetPreferences(ctx, userID)
	require.NoError(t, prefErr)
	assert.Empty(t, prefs)
}

func TestProcessExtractsPreferences(t *testing.T) {
	ctx := context.Background()
	stub := &oracleStub{reply: "Here are some thrillers you might enjoy."}
	orch, mem, userID := newTestOrchestrator(t, stub)

	_, err := orch.Process(ctx, userID, "I love thriller movies")
	require.NoError(t, err)

	prefs, err := mem.GetPreferences(ctx, userID)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, models.PrefGenre, prefs[0].Type)
	assert.Equal(t, "Thriller", prefs[0].Value)
}

func TestProcessUsesPreferencesInContext(t *testing.T) {
	ctx := context.Background()
	stub := &oracleStub{reply: "ok"}
	orch, mem, userID := newTestOrchestrator(t, stub)

	_, err := mem.UpsertPreference(ctx, userID, models.PrefGenre, "Sci-Fi", 0.9)
	require.NoError(t, err)

	_, err = orch.Process(ctx, userID, "recommend me something")
	require.NoError(t, err)

	assert.Contains(t, stub.lastPrompt(), "User preferences:")
	assert.Contains(t, stub.lastPrompt(), "Sci-Fi")
}

func TestProcessConcurrentTurnsSameUser(t *testing.T) {
	ctx := context.Background()
	stub := &oracleStub{reply: "ok"}
	orch, mem, userID := newTestOrchestrator(t, stub)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := orch.Process(ctx, userID, "hello there")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Each turn persisted its user and assistant entries without
	// interleaving partially.
	turns, err := mem.Recent(ctx, userID, 20)
	require.NoError(t, err)
	require.Len(t, turns, 8)
	for i := 0; i < 8; i += 2 {
		assert.Equal(t, models.RoleUser, turns[i].Role)
		assert.Equal(t, models.RoleAssistant, turns[i+1].Role)
	}
}

func TestRecordsMetrics(t *testing.T) {
	ctx := context.Background()
	stub := &oracleStub{reply: "ok"}
	orch, _, userID := newTestOrchestrator(t, stub)

	_, err := orch.Process(ctx, userID, "show me comedy films")
	require.NoError(t, err)

	snap := orch.collector.Snapshot()
	require.NotNil(t, snap.Route)
	assert.Equal(t, int64(1), snap.Route.Count)
	require.NotNil(t, snap.Tools)
	require.NotNil(t, snap.Oracle)
	require.NotNil(t, snap.Persist)
	require.NotNil(t, snap.Extract)
}
