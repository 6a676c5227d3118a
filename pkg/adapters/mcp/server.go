package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stm"
	render "github.com/aretw0/stm/internal/presentation/graph"
	"github.com/aretw0/stm/pkg/adapters/file"
	"github.com/aretw0/stm/pkg/analysis"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/aretw0/stm/pkg/session"
	"github.com/aretw0/stm/pkg/synth"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// modelURIPrefix addresses stored models as resources.
const modelURIPrefix = "stm://models/"

// ModelResponse carries the model after an edit.
type ModelResponse struct {
	Model *domain.Snapshot `json:"model" jsonschema_description:"The model after the change"`
}

// TransitionResponse reports whether an add created or merged a transition.
type TransitionResponse struct {
	Outcome    string            `json:"outcome" jsonschema_description:"created or merged"`
	Transition domain.Transition `json:"transition" jsonschema_description:"The stored transition"`
}

// PathResponse carries a walk through the model.
type PathResponse struct {
	Path []string `json:"path" jsonschema_description:"Visited states, start included"`
}

// EvaluateResponse carries the truth value of a condition.
type EvaluateResponse struct {
	Result bool `json:"result" jsonschema_description:"Whether the condition holds for the current inputs"`
}

// SynthesizeResponse lists the inputs written by the synthesizer.
type SynthesizeResponse struct {
	Assignments []synth.Assignment `json:"assignments" jsonschema_description:"Input values written"`
}

// Server exposes stored models as MCP tools and resources.
type Server struct {
	manager   *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server over the session manager.
func NewServer(manager *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		manager:   manager,
		logger:    logger,
		mcpServer: server.NewMCPServer("stm-mcp", strings.TrimSpace(stm.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func modelArg() mcp.ToolOption {
	return mcp.WithString("model", mcp.Required(), mcp.Description("ID of the stored model"))
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_models",
		mcp.WithDescription("List the IDs of all stored models."),
	), s.handleListModels)

	s.mcpServer.AddTool(mcp.NewTool("create_model",
		mcp.WithDescription("Create a model, optionally from a YAML or JSON document. Returns its ID."),
		mcp.WithString("document", mcp.Description("Model document with states, transitions and inputs (optional)")),
		mcp.WithString("format", mcp.Description("Document format: yaml (default) or json")),
	), s.handleCreateModel)

	s.mcpServer.AddTool(mcp.NewTool("get_model",
		mcp.WithDescription("Get the states, transitions and inputs of a model."),
		modelArg(),
		mcp.WithOutputSchema[ModelResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetModel))

	s.mcpServer.AddTool(mcp.NewTool("add_state",
		mcp.WithDescription("Add a state to a model."),
		modelArg(),
		mcp.WithString("name", mcp.Required(), mcp.Description("State name")),
		mcp.WithOutputSchema[ModelResponse](),
	), mcp.NewStructuredToolHandler(s.handleAddState))

	s.mcpServer.AddTool(mcp.NewTool("rename_state",
		mcp.WithDescription("Rename a state, rewriting the transitions that touch it."),
		modelArg(),
		mcp.WithString("name", mcp.Required(), mcp.Description("Current state name")),
		mcp.WithString("new_name", mcp.Required(), mcp.Description("New state name")),
		mcp.WithOutputSchema[ModelResponse](),
	), mcp.NewStructuredToolHandler(s.handleRenameState))

	s.mcpServer.AddTool(mcp.NewTool("remove_state",
		mcp.WithDescription("Remove a state and every transition touching it. Inputs no longer referenced are dropped."),
		modelArg(),
		mcp.WithString("name", mcp.Required(), mcp.Description("State name")),
		mcp.WithOutputSchema[ModelResponse](),
	), mcp.NewStructuredToolHandler(s.handleRemoveState))

	s.mcpServer.AddTool(mcp.NewTool("add_transition",
		mcp.WithDescription("Add a guarded transition. A second transition between the same states is merged into the first with ||."),
		modelArg(),
		mcp.WithString("from", mcp.Required(), mcp.Description("Source state")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Destination state")),
		mcp.WithString("condition", mcp.Description("Guard, e.g. 'x == 1 && y > 2'. Empty means unconditional")),
		mcp.WithString("name", mcp.Description("Transition name (optional)")),
		mcp.WithOutputSchema[TransitionResponse](),
	), mcp.NewStructuredToolHandler(s.handleAddTransition))

	s.mcpServer.AddTool(mcp.NewTool("remove_transition",
		mcp.WithDescription("Remove the transition between two states."),
		modelArg(),
		mcp.WithString("from", mcp.Required(), mcp.Description("Source state")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Destination state")),
		mcp.WithOutputSchema[ModelResponse](),
	), mcp.NewStructuredToolHandler(s.handleRemoveTransition))

	s.mcpServer.AddTool(mcp.NewTool("set_input",
		mcp.WithDescription("Set the value of an input."),
		modelArg(),
		mcp.WithString("name", mcp.Required(), mcp.Description("Input name")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Integer value")),
		mcp.WithOutputSchema[ModelResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetInput))

	s.mcpServer.AddTool(mcp.NewTool("analyze",
		mcp.WithDescription("Report terminal states, strong connectivity, redundant state pairs and, given a start, unreachable states."),
		modelArg(),
		mcp.WithString("start", mcp.Description("Start state for reachability (optional)")),
		mcp.WithOutputSchema[analysis.Report](),
	), mcp.NewStructuredToolHandler(s.handleAnalyze))

	s.mcpServer.AddTool(mcp.NewTool("trace",
		mcp.WithDescription("Generate a coverage walk that prefers the least visited successor. Conditions are ignored."),
		modelArg(),
		mcp.WithString("start", mcp.Required(), mcp.Description("Start state")),
		mcp.WithNumber("steps", mcp.Required(), mcp.Description("Number of transitions to take")),
		mcp.WithOutputSchema[PathResponse](),
	), mcp.NewStructuredToolHandler(s.handleTrace))

	s.mcpServer.AddTool(mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate a condition against the current inputs."),
		modelArg(),
		mcp.WithString("condition", mcp.Required(), mcp.Description("Condition text")),
		mcp.WithOutputSchema[EvaluateResponse](),
	), mcp.NewStructuredToolHandler(s.handleEvaluate))

	s.mcpServer.AddTool(mcp.NewTool("synthesize",
		mcp.WithDescription("Write input values that make a condition, or the guard of a transition, hold."),
		modelArg(),
		mcp.WithString("condition", mcp.Description("Condition text (or give from and to)")),
		mcp.WithString("from", mcp.Description("Source state of the transition")),
		mcp.WithString("to", mcp.Description("Destination state of the transition")),
		mcp.WithOutputSchema[SynthesizeResponse](),
	), mcp.NewStructuredToolHandler(s.handleSynthesize))

	s.mcpServer.AddTool(mcp.NewTool("run",
		mcp.WithDescription("Simulate the machine from a start state, firing the first enabled transition at each step."),
		modelArg(),
		mcp.WithString("start", mcp.Required(), mcp.Description("Start state")),
		mcp.WithNumber("max_steps", mcp.Description("Upper bound on transitions taken (default 100)")),
		mcp.WithOutputSchema[PathResponse](),
	), mcp.NewStructuredToolHandler(s.handleRun))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Render the model as a Mermaid flowchart."),
		modelArg(),
		mcp.WithString("start", mcp.Description("Start state to highlight (optional)")),
	), s.handleGetGraph)
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func intArg(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func (s *Server) handleListModels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.manager.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(ids)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleCreateModel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	snap := &domain.Snapshot{}
	if doc := stringArg(args, "document"); strings.TrimSpace(doc) != "" {
		format := file.FormatYAML
		if stringArg(args, "format") == "json" {
			format = file.FormatJSON
		}
		var err error
		if snap, err = file.Decode([]byte(doc), format); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	id, err := s.manager.Create(ctx, snap)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("create failed: %v", err)), nil
	}
	return mcp.NewToolResultText(id), nil
}

// edit applies fn and returns the saved model.
func (s *Server) edit(ctx context.Context, args map[string]interface{}, fn func(*stm.Editor) error) (ModelResponse, error) {
	var resp ModelResponse
	err := s.manager.Edit(ctx, stringArg(args, "model"), func(ed *stm.Editor) error {
		if err := fn(ed); err != nil {
			return err
		}
		resp.Model = ed.Snapshot()
		return nil
	})
	return resp, err
}

func (s *Server) handleGetModel(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ModelResponse, error) {
	snap, err := s.manager.Load(ctx, stringArg(args, "model"))
	if err != nil {
		return ModelResponse{}, err
	}
	return ModelResponse{Model: snap}, nil
}

func (s *Server) handleAddState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ModelResponse, error) {
	return s.edit(ctx, args, func(ed *stm.Editor) error {
		return ed.AddState(stringArg(args, "name"))
	})
}

func (s *Server) handleRenameState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ModelResponse, error) {
	return s.edit(ctx, args, func(ed *stm.Editor) error {
		return ed.RenameState(stringArg(args, "name"), stringArg(args, "new_name"))
	})
}

func (s *Server) handleRemoveState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ModelResponse, error) {
	return s.edit(ctx, args, func(ed *stm.Editor) error {
		return ed.RemoveState(stringArg(args, "name"))
	})
}

func (s *Server) handleAddTransition(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TransitionResponse, error) {
	from, to := stringArg(args, "from"), stringArg(args, "to")
	var resp TransitionResponse
	err := s.manager.Edit(ctx, stringArg(args, "model"), func(ed *stm.Editor) error {
		out, err := ed.AddTransition(stringArg(args, "name"), stringArg(args, "condition"), from, to)
		if err != nil {
			return err
		}
		resp.Outcome = out.String()
		resp.Transition, _ = ed.Transition(from, to)
		return nil
	})
	return resp, err
}

func (s *Server) handleRemoveTransition(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ModelResponse, error) {
	return s.edit(ctx, args, func(ed *stm.Editor) error {
		return ed.RemoveTransition(stringArg(args, "from"), stringArg(args, "to"))
	})
}

func (s *Server) handleSetInput(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ModelResponse, error) {
	return s.edit(ctx, args, func(ed *stm.Editor) error {
		return ed.UpdateInput(stringArg(args, "name"), stringArg(args, "value"))
	})
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (analysis.Report, error) {
	var rep analysis.Report
	err := s.manager.View(ctx, stringArg(args, "model"), func(ed *stm.Editor) error {
		rep = ed.Analyze(stringArg(args, "start"))
		return nil
	})
	return rep, err
}

func (s *Server) handleTrace(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PathResponse, error) {
	var resp PathResponse
	err := s.manager.View(ctx, stringArg(args, "model"), func(ed *stm.Editor) error {
		var err error
		resp.Path, err = ed.Trace(stringArg(args, "start"), intArg(args, "steps", 0))
		return err
	})
	return resp, err
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EvaluateResponse, error) {
	var resp EvaluateResponse
	err := s.manager.View(ctx, stringArg(args, "model"), func(ed *stm.Editor) error {
		var err error
		resp.Result, err = ed.Evaluate(stringArg(args, "condition"))
		return err
	})
	return resp, err
}

func (s *Server) handleSynthesize(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SynthesizeResponse, error) {
	var resp SynthesizeResponse
	from, to := stringArg(args, "from"), stringArg(args, "to")
	err := s.manager.Edit(ctx, stringArg(args, "model"), func(ed *stm.Editor) error {
		var err error
		if from != "" || to != "" {
			resp.Assignments, err = ed.SynthesizeTransition(from, to)
		} else {
			resp.Assignments, err = ed.Synthesize(stringArg(args, "condition"))
		}
		return err
	})
	return resp, err
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PathResponse, error) {
	var resp PathResponse
	err := s.manager.View(ctx, stringArg(args, "model"), func(ed *stm.Editor) error {
		var err error
		resp.Path, err = ed.Run(stringArg(args, "start"), intArg(args, "max_steps", 100))
		return err
	})
	return resp, err
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	out, err := s.mermaid(ctx, stringArg(args, "model"), stringArg(args, "start"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("graph failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) mermaid(ctx context.Context, id, start string) (string, error) {
	var out string
	err := s.manager.View(ctx, id, func(ed *stm.Editor) error {
		var overlay *render.GraphOverlay
		if start != "" {
			if !ed.HasState(start) {
				return fmt.Errorf("%w: %q", domain.ErrStateNotFound, start)
			}
			overlay = &render.GraphOverlay{Start: start, Unreachable: ed.Analyze(start).Unreachable}
		}
		out = render.GenerateMermaid(ed.Snapshot(), overlay)
		return nil
	})
	return out, err
}

func (s *Server) registerResources() {
	// EXPOSE: stm://models
	s.mcpServer.AddResource(mcp.NewResource("stm://models", "Stored Models",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.manager.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list models: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "stm://models",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: stm://models/{id}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(modelURIPrefix+"{id}", "Model Definition",
		mcp.WithTemplateMIMEType("application/json"),
	), s.readModelResource)
}

func (s *Server) readModelResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id := strings.TrimPrefix(uri, modelURIPrefix)
	if id == "" || id == uri {
		return nil, errors.New("resource URI must name a model")
	}
	snap, err := s.manager.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	jsonBytes, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
