package executor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
	"github.com/jaeyunha/mcp-manus/internal/application/service"
	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

// fakeSession serves a scripted sequence of states: every GetState call
// pops the next one, so tests can simulate page drift between actions.
type fakeSession struct {
	output.SessionPort

	states   []*entity.BrowserState
	stateErr error
	calls    int
}

func (s *fakeSession) GetState(ctx context.Context) (*entity.BrowserState, error) {
	if s.stateErr != nil {
		return nil, s.stateErr
	}
	state := s.states[0]
	if len(s.states) > 1 {
		s.states = s.states[1:]
	}
	s.calls++
	return state, nil
}

func (s *fakeSession) CurrentURL() string { return "about:blank" }
func (s *fakeSession) Close()             {}

type fakeAction struct {
	name       string
	required   []string
	dispatched *[]string
	result     entity.ActionResult
	err        error
}

func (a *fakeAction) Name() string        { return a.name }
func (a *fakeAction) Description() string { return "fake " + a.name }
func (a *fakeAction) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   a.required,
	}
}

func (a *fakeAction) Execute(ctx context.Context, params map[string]any, session output.SessionPort) (entity.ActionResult, error) {
	*a.dispatched = append(*a.dispatched, a.name)
	return a.result, a.err
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                      {}
func (nopLogger) Info(string, ...any)                       {}
func (nopLogger) Warn(string, ...any)                       {}
func (nopLogger) Error(string, ...any)                      {}
func (l nopLogger) WithField(string, any) output.LoggerPort { return l }
func (nopLogger) Close() error                              { return nil }

func stateWithHashes(hashes ...string) *entity.BrowserState {
	m := make(map[int]entity.DOMElement, len(hashes))
	for i, h := range hashes {
		m[i+1] = entity.DOMElement{Index: i + 1, Tag: "button", BranchPathHash: h}
	}
	return &entity.BrowserState{URL: "https://example.com", Title: "Example", SelectorMap: m}
}

func setup(t *testing.T, session *fakeSession, actions ...*fakeAction) (*UseCase, *[]string) {
	t.Helper()
	dispatched := &[]string{}
	registry := service.NewActionRegistry(nopLogger{})
	for _, a := range actions {
		a.dispatched = dispatched
		registry.Register(a)
	}
	return New(registry, session, nopLogger{}), dispatched
}

func plan(actions ...entity.Action) entity.ExecutionPlan {
	return entity.ExecutionPlan{
		CurrentState: entity.PlannerState{NextGoal: "test"},
		Actions:      actions,
	}
}

func TestExecutePlan_AllActionsSucceed(t *testing.T) {
	session := &fakeSession{states: []*entity.BrowserState{stateWithHashes("h1", "h2", "h3")}}
	uc, dispatched := setup(t, session,
		&fakeAction{name: "click_element", result: entity.ActionResult{}},
		&fakeAction{name: "input_text", result: entity.ActionResult{ExtractedContent: "typed"}},
		&fakeAction{name: "go_to_url", result: entity.ActionResult{}},
	)

	results, err := uc.ExecutePlan(context.Background(), plan(
		entity.Action{Name: "click_element", Params: map[string]any{"index": 3}},
		entity.Action{Name: "input_text", Params: map[string]any{"index": 5, "text": "hi"}},
		entity.Action{Name: "go_to_url", Params: map[string]any{"url": "https://example.com"}},
	))
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, []string{"click_element", "input_text", "go_to_url"}, *dispatched)
	assert.Equal(t, "typed", results[1].ExtractedContent)
	for _, r := range results {
		assert.Empty(t, r.Error)
	}
}

func TestExecutePlan_EmptyPlan(t *testing.T) {
	session := &fakeSession{states: []*entity.BrowserState{stateWithHashes("h1")}}
	uc, _ := setup(t, session)

	_, err := uc.ExecutePlan(context.Background(), plan())
	require.Error(t, err)
}

func TestExecutePlan_NewElementsAreTolerated(t *testing.T) {
	// After the click the page gains h4 but keeps everything the plan
	// was computed against: subset check holds, no interruption.
	session := &fakeSession{states: []*entity.BrowserState{
		stateWithHashes("h1", "h2", "h3"),
		stateWithHashes("h1", "h2", "h3", "h4"),
	}}
	uc, dispatched := setup(t, session,
		&fakeAction{name: "click_element"},
		&fakeAction{name: "input_text"},
	)

	results, err := uc.ExecutePlan(context.Background(), plan(
		entity.Action{Name: "click_element", Params: map[string]any{"index": 3}},
		entity.Action{Name: "input_text", Params: map[string]any{"index": 5, "text": "hi"}},
	))
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, []string{"click_element", "input_text"}, *dispatched)
}

func TestExecutePlan_MissingElementInterrupts(t *testing.T) {
	// h3 disappears after the click: the remaining indices are stale,
	// so input_text must never be dispatched.
	session := &fakeSession{states: []*entity.BrowserState{
		stateWithHashes("h1", "h2", "h3"),
		stateWithHashes("h1", "h2", "h5"),
	}}
	uc, dispatched := setup(t, session,
		&fakeAction{name: "click_element"},
		&fakeAction{name: "input_text"},
	)

	results, err := uc.ExecutePlan(context.Background(), plan(
		entity.Action{Name: "click_element", Params: map[string]any{"index": 3}},
		entity.Action{Name: "input_text", Params: map[string]any{"index": 5, "text": "hi"}},
	))
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, []string{"click_element"}, *dispatched)
	assert.Contains(t, results[1].ExtractedContent, "Page changed after action 1/2")
	assert.Empty(t, results[1].Error)
}

func TestExecutePlan_PureDisappearanceInterrupts(t *testing.T) {
	// h3 vanishes and nothing replaces it. A shrinking element set is
	// still drift: the plan's indices were computed against h3.
	session := &fakeSession{states: []*entity.BrowserState{
		stateWithHashes("h1", "h2", "h3"),
		stateWithHashes("h1", "h2"),
	}}
	uc, dispatched := setup(t, session,
		&fakeAction{name: "click_element"},
		&fakeAction{name: "input_text"},
	)

	results, err := uc.ExecutePlan(context.Background(), plan(
		entity.Action{Name: "click_element", Params: map[string]any{"index": 3}},
		entity.Action{Name: "input_text", Params: map[string]any{"index": 5, "text": "hi"}},
	))
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, []string{"click_element"}, *dispatched)
	assert.Contains(t, results[1].ExtractedContent, "Page changed after action 1/2")
}

func TestExecutePlan_NonElementActionSkipsDriftCheck(t *testing.T) {
	// go_to_url carries no index: even though the page changes
	// completely, the next action still runs.
	session := &fakeSession{states: []*entity.BrowserState{
		stateWithHashes("h1", "h2"),
		stateWithHashes("x1", "x2"),
	}}
	uc, dispatched := setup(t, session,
		&fakeAction{name: "go_to_url"},
		&fakeAction{name: "click_element"},
	)

	results, err := uc.ExecutePlan(context.Background(), plan(
		entity.Action{Name: "go_to_url", Params: map[string]any{"url": "https://example.com"}},
		entity.Action{Name: "click_element", Params: map[string]any{"index": 1}},
	))
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, []string{"go_to_url", "click_element"}, *dispatched)
	// Only the initial baseline read happens: the drift check after the
	// final action is skipped too.
	assert.Equal(t, 1, session.calls)
}

func TestExecutePlan_ActionErrorHaltsSequence(t *testing.T) {
	session := &fakeSession{states: []*entity.BrowserState{stateWithHashes("h1")}}
	uc, dispatched := setup(t, session,
		&fakeAction{name: "click_element", result: entity.ActionResult{Error: "element not found"}},
		&fakeAction{name: "input_text"},
	)

	results, err := uc.ExecutePlan(context.Background(), plan(
		entity.Action{Name: "click_element", Params: map[string]any{"index": 3}},
		entity.Action{Name: "input_text", Params: map[string]any{"index": 5, "text": "hi"}},
	))
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "element not found", results[0].Error)
	assert.Equal(t, []string{"click_element"}, *dispatched)
}

func TestExecutePlan_DispatchFaultBecomesResultError(t *testing.T) {
	session := &fakeSession{states: []*entity.BrowserState{stateWithHashes("h1")}}
	uc, dispatched := setup(t, session,
		&fakeAction{name: "click_element", err: errors.New("tab crashed")},
		&fakeAction{name: "input_text"},
	)

	results, err := uc.ExecutePlan(context.Background(), plan(
		entity.Action{Name: "click_element", Params: map[string]any{"index": 1}},
		entity.Action{Name: "input_text", Params: map[string]any{"index": 2, "text": "x"}},
	))
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Contains(t, results[0].Error, "tab crashed")
	assert.Equal(t, []string{"click_element"}, *dispatched)
}

func TestExecutePlan_MalformedEntryStopsThere(t *testing.T) {
	session := &fakeSession{states: []*entity.BrowserState{stateWithHashes("h1")}}
	uc, dispatched := setup(t, session,
		&fakeAction{name: "go_to_url"},
		&fakeAction{name: "click_element"},
	)

	malformed := entity.ParseAction(map[string]any{
		"click_element": map[string]any{"index": float64(1)},
		"input_text":    map[string]any{"index": float64(2)},
	})
	require.NotEmpty(t, malformed.Err)

	results, err := uc.ExecutePlan(context.Background(), plan(
		entity.Action{Name: "go_to_url", Params: map[string]any{"url": "https://example.com"}},
		malformed,
		entity.Action{Name: "click_element", Params: map[string]any{"index": 1}},
	))
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, []string{"go_to_url"}, *dispatched)
	assert.Contains(t, results[1].Error, "invalid action format")
}

func TestExecutePlan_UnknownActionStopsThere(t *testing.T) {
	session := &fakeSession{states: []*entity.BrowserState{stateWithHashes("h1")}}
	uc, dispatched := setup(t, session, &fakeAction{name: "go_to_url"})

	results, err := uc.ExecutePlan(context.Background(), plan(
		entity.Action{Name: "teleport", Params: map[string]any{}},
		entity.Action{Name: "go_to_url", Params: map[string]any{"url": "https://example.com"}},
	))
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Contains(t, results[0].Error, "unknown action")
	assert.Empty(t, *dispatched)
}

func TestExecutePlan_MissingRequiredParamStopsThere(t *testing.T) {
	session := &fakeSession{states: []*entity.BrowserState{stateWithHashes("h1")}}
	uc, dispatched := setup(t, session,
		&fakeAction{name: "input_text", required: []string{"index", "text"}},
	)

	results, err := uc.ExecutePlan(context.Background(), plan(
		entity.Action{Name: "input_text", Params: map[string]any{"index": float64(2)}},
	))
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Contains(t, results[0].Error, `requires parameter "text"`)
	assert.Empty(t, *dispatched)
}

func TestExecutePlan_StateReadFailureAfterAction(t *testing.T) {
	session := &fakeSession{states: []*entity.BrowserState{stateWithHashes("h1")}}
	uc, _ := setup(t, session,
		&fakeAction{name: "click_element"},
		&fakeAction{name: "input_text"},
	)

	results, err := uc.ExecutePlan(context.Background(), plan(
		entity.Action{Name: "click_element", Params: map[string]any{"index": 1}},
		entity.Action{Name: "input_text", Params: map[string]any{"index": 2, "text": "x"}},
	))
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Now make the baseline read itself fail.
	session.stateErr = errors.New("browser gone")
	_, err = uc.ExecutePlan(context.Background(), plan(
		entity.Action{Name: "click_element", Params: map[string]any{"index": 1}},
	))
	require.Error(t, err)
}

func TestSubsetOf(t *testing.T) {
	set := func(hashes ...string) map[string]struct{} {
		m := make(map[string]struct{}, len(hashes))
		for _, h := range hashes {
			m[h] = struct{}{}
		}
		return m
	}

	cases := []struct {
		name string
		sub  []string
		sup  []string
		want bool
	}{
		{"equal", []string{"a", "b"}, []string{"a", "b"}, true},
		{"strict subset", []string{"a"}, []string{"a", "b"}, true},
		{"empty sub", nil, []string{"a"}, true},
		{"missing member", []string{"a", "c"}, []string{"a", "b"}, false},
		{"empty super", []string{"a"}, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := subsetOf(set(tc.sub...), set(tc.sup...)); got != tc.want {
				t.Errorf("subsetOf(%v, %v) = %v, want %v", tc.sub, tc.sup, got, tc.want)
			}
		})
	}
}

func TestExecutePlan_ManyActionsInOrder(t *testing.T) {
	session := &fakeSession{states: []*entity.BrowserState{stateWithHashes("h1")}}

	var actions []*fakeAction
	var specs []entity.Action
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("action_%d", i)
		actions = append(actions, &fakeAction{name: name, result: entity.ActionResult{ExtractedContent: name}})
		specs = append(specs, entity.Action{Name: name, Params: map[string]any{}})
	}
	uc, dispatched := setup(t, session, actions...)

	results, err := uc.ExecutePlan(context.Background(), plan(specs...))
	require.NoError(t, err)

	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("action_%d", i), r.ExtractedContent)
	}
	assert.Len(t, *dispatched, 5)
}
