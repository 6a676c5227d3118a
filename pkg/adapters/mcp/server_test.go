package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/stm/pkg/adapters/memory"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/aretw0/stm/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(session.NewManager(memory.NewStore()), nil)
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func createModel(t *testing.T, s *Server, doc string) string {
	t.Helper()
	res, err := s.handleCreateModel(context.Background(), callRequest(map[string]interface{}{"document": doc}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))
	return resultText(t, res)
}

const doorModel = `
states: [Closed, Open, Locked]
transitions:
  - "Closed -> Open: push == 1"
  - "Open -> Closed: push == 0"
  - "Closed -> Locked: key > 0"
`

func TestCreateAndList(t *testing.T) {
	s := newTestServer(t)
	id := createModel(t, s, doorModel)

	res, err := s.handleListModels(context.Background(), callRequest(nil))
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &ids))
	assert.Equal(t, []string{id}, ids)

	got, err := s.handleGetModel(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"model": id})
	require.NoError(t, err)
	assert.Equal(t, []string{"Closed", "Open", "Locked"}, got.Model.States)
}

func TestCreateModel_BadDocument(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleCreateModel(context.Background(), callRequest(map[string]interface{}{
		"document": "transitions: [\"A -> B\"]",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestEditTools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	id := createModel(t, s, "")
	req := mcp.CallToolRequest{}

	_, err := s.handleAddState(ctx, req, map[string]interface{}{"model": id, "name": "A"})
	require.NoError(t, err)
	_, err = s.handleAddState(ctx, req, map[string]interface{}{"model": id, "name": "B"})
	require.NoError(t, err)

	_, err = s.handleAddState(ctx, req, map[string]interface{}{"model": id, "name": "A"})
	assert.ErrorIs(t, err, domain.ErrStateExists)

	tr, err := s.handleAddTransition(ctx, req, map[string]interface{}{
		"model": id, "from": "A", "to": "B", "condition": "x == 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "created", tr.Outcome)

	tr, err = s.handleAddTransition(ctx, req, map[string]interface{}{
		"model": id, "from": "A", "to": "B", "condition": "y == 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "merged", tr.Outcome)
	assert.Equal(t, "x == 1 || y == 1", tr.Transition.Condition)

	resp, err := s.handleSetInput(ctx, req, map[string]interface{}{"model": id, "name": "y", "value": "1"})
	require.NoError(t, err)
	assert.Contains(t, resp.Model.Inputs, domain.Input{Name: "y", Value: "1"})

	run, err := s.handleRun(ctx, req, map[string]interface{}{"model": id, "start": "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, run.Path)

	resp, err = s.handleRenameState(ctx, req, map[string]interface{}{"model": id, "name": "B", "new_name": "End"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "End"}, resp.Model.States)

	resp, err = s.handleRemoveTransition(ctx, req, map[string]interface{}{"model": id, "from": "A", "to": "End"})
	require.NoError(t, err)
	assert.Empty(t, resp.Model.Transitions)

	resp, err = s.handleRemoveState(ctx, req, map[string]interface{}{"model": id, "name": "End"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, resp.Model.States)
}

func TestQueryTools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	id := createModel(t, s, doorModel)
	req := mcp.CallToolRequest{}

	rep, err := s.handleAnalyze(ctx, req, map[string]interface{}{"model": id, "start": "Closed"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Locked"}, rep.TerminalStates)
	assert.False(t, rep.StronglyConnected)

	trace, err := s.handleTrace(ctx, req, map[string]interface{}{"model": id, "start": "Closed", "steps": float64(2)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Closed", "Open", "Closed"}, trace.Path)

	ev, err := s.handleEvaluate(ctx, req, map[string]interface{}{"model": id, "condition": "push == 1"})
	require.NoError(t, err)
	assert.False(t, ev.Result)

	syn, err := s.handleSynthesize(ctx, req, map[string]interface{}{"model": id, "from": "Closed", "to": "Locked"})
	require.NoError(t, err)
	require.Len(t, syn.Assignments, 1)
	assert.Equal(t, "key", syn.Assignments[0].Input)

	ev, err = s.handleEvaluate(ctx, req, map[string]interface{}{"model": id, "condition": "key > 0"})
	require.NoError(t, err)
	assert.True(t, ev.Result)

	_, err = s.handleTrace(ctx, req, map[string]interface{}{"model": "missing", "start": "Closed", "steps": float64(1)})
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestGetGraph(t *testing.T) {
	s := newTestServer(t)
	id := createModel(t, s, doorModel)

	res, err := s.handleGetGraph(context.Background(), callRequest(map[string]interface{}{"model": id, "start": "Closed"}))
	require.NoError(t, err)
	out := resultText(t, res)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `Closed(("Closed"))`)

	res, err = s.handleGetGraph(context.Background(), callRequest(map[string]interface{}{"model": id, "start": "Nowhere"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestModelResource(t *testing.T) {
	s := newTestServer(t)
	id := createModel(t, s, doorModel)

	var req mcp.ReadResourceRequest
	req.Params.URI = modelURIPrefix + id
	contents, err := s.readModelResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(text.Text), &snap))
	assert.Len(t, snap.Transitions, 3)

	req.Params.URI = "stm://other"
	_, err = s.readModelResource(context.Background(), req)
	assert.Error(t, err)
}
