// Package mcp provides an MCP (Model Context Protocol) server that exposes
// tskr task operations as tools for AI coding assistants, so agents can
// claim and complete work through the same event-logged paths as the CLI.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tskr-dev/tskr/internal/core"
	"github.com/tskr-dev/tskr/internal/dates"
	"github.com/tskr-dev/tskr/pkg/models"
)

// Server wraps a TaskService and exposes it as MCP tools.
type Server struct {
	server *gomcp.Server
	tasks  core.TaskService
	actor  string
}

// NewServer creates an MCP server backed by the given task service.
// actor is recorded in the event log for every mutation a client makes;
// empty defaults to "agent".
func NewServer(tasks core.TaskService, actor, version string) *Server {
	if version == "" {
		version = "dev"
	}
	if actor == "" {
		actor = "agent"
	}

	s := &Server{tasks: tasks, actor: actor}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "tskr", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,full task UUID or unique prefix"`
}

type taskOutput struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority,omitempty"`
	Project     string   `json:"project,omitempty"`
	ClaimedBy   string   `json:"claimed_by,omitempty"`
	Due         string   `json:"due,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	DependsOn   []string `json:"depends_on,omitempty"`
	Created     string   `json:"created"`
	Modified    string   `json:"modified"`
	Urgency     float64  `json:"urgency"`
}

type listTasksInput struct {
	Status    string `json:"status,omitempty" jsonschema:"filter by status (backlog, pending, completed, archived)"`
	Tag       string `json:"tag,omitempty" jsonschema:"filter to tasks carrying this tag"`
	Unclaimed bool   `json:"unclaimed,omitempty" jsonschema:"only tasks nobody has claimed"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of tasks to return"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type createTaskInput struct {
	Title       string   `json:"title" jsonschema:"required,short task title"`
	Description string   `json:"description,omitempty" jsonschema:"longer free-form description"`
	Priority    string   `json:"priority,omitempty" jsonschema:"H, M, or L"`
	Due         string   `json:"due,omitempty" jsonschema:"due date, natural language accepted (tomorrow, in 3 days, 2026-09-01)"`
	Tags        []string `json:"tags,omitempty" jsonschema:"tags to attach"`
}

type claimTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,full task UUID or unique prefix"`
}

type completeTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,full task UUID or unique prefix"`
}

type listEventsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of events to return, most recent last"`
}

type eventOutput struct {
	Timestamp string         `json:"ts"`
	Event     string         `json:"event"`
	TaskID    string         `json:"task_id,omitempty"`
	Actor     string         `json:"actor"`
	Details   map[string]any `json:"details,omitempty"`
}

type listEventsOutput struct {
	Events []eventOutput `json:"events"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get full task details by ID or unique prefix, including status, priority, claim holder, and urgency.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks sorted by urgency, with optional status, tag, and unclaimed filters.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "create_task",
		Description: "Create a new task in the backlog. Priority is H, M, or L; due dates accept natural language.",
	}, s.handleCreateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "claim_task",
		Description: "Claim a task so other workers leave it alone. Fails if someone else already holds the claim.",
	}, s.handleClaimTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task as completed and release any claim on it.",
	}, s.handleCompleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_events",
		Description: "Read recent entries from the append-only coordination log.",
	}, s.handleListEvents)
}

// --- Tool handlers ---

func (s *Server) handleGetTask(_ context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	task, err := s.tasks.Get(input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}
	if task == nil {
		return errorResult(fmt.Sprintf("task not found: %s", input.TaskID)), taskOutput{}, nil
	}

	return nil, taskToOutput(task), nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	filter := models.DefaultFilter(input.Limit)
	if input.Status != "" {
		status := models.Status(input.Status)
		if !models.ValidStatus(status) {
			return errorResult(fmt.Sprintf("invalid status %q: must be one of backlog, pending, completed, archived", input.Status)), listTasksOutput{}, nil
		}
		filter.Status = &status
	}
	if input.Tag != "" {
		filter.Tags = []string{input.Tag}
	}
	filter.UnclaimedOnly = input.Unclaimed

	tasks, err := s.tasks.List(&filter)
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i := range tasks {
		out.Tasks[i] = taskToOutput(&tasks[i])
	}

	return nil, out, nil
}

func (s *Server) handleCreateTask(_ context.Context, _ *gomcp.CallToolRequest, input createTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.Title == "" {
		return errorResult("title is required"), taskOutput{}, nil
	}

	opts := core.CreateTaskOpts{
		Description: input.Description,
		Tags:        input.Tags,
	}
	if input.Priority != "" {
		p := models.Priority(input.Priority)
		if !models.ValidPriority(p) {
			return errorResult(fmt.Sprintf("invalid priority %q: must be H, M, or L", input.Priority)), taskOutput{}, nil
		}
		opts.Priority = p
	}
	if input.Due != "" {
		due, ok := dates.ParseNatural(input.Due, time.Now())
		if !ok {
			return errorResult(fmt.Sprintf("invalid due date %q", input.Due)), taskOutput{}, nil
		}
		opts.Due = &due
	}

	task, err := s.tasks.Create(input.Title, opts, s.actor)
	if err != nil {
		return errorResult(fmt.Sprintf("creating task: %s", err)), taskOutput{}, nil
	}

	return nil, taskToOutput(task), nil
}

func (s *Server) handleClaimTask(_ context.Context, _ *gomcp.CallToolRequest, input claimTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	task, err := s.tasks.Claim(input.TaskID, s.actor)
	if err != nil {
		return errorResult(fmt.Sprintf("claiming task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}

	return nil, taskToOutput(task), nil
}

func (s *Server) handleCompleteTask(_ context.Context, _ *gomcp.CallToolRequest, input completeTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	task, err := s.tasks.Complete(input.TaskID, s.actor)
	if err != nil {
		return errorResult(fmt.Sprintf("completing task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}

	return nil, taskToOutput(task), nil
}

func (s *Server) handleListEvents(_ context.Context, _ *gomcp.CallToolRequest, input listEventsInput) (*gomcp.CallToolResult, listEventsOutput, error) {
	events, err := s.tasks.RecentEvents(input.Limit)
	if err != nil {
		return errorResult(fmt.Sprintf("reading events: %s", err)), listEventsOutput{}, nil
	}

	out := listEventsOutput{
		Events: make([]eventOutput, len(events)),
		Count:  len(events),
	}
	for i, ev := range events {
		out.Events[i] = eventOutput{
			Timestamp: ev.Timestamp.Format(time.RFC3339),
			Event:     ev.EventType,
			TaskID:    ev.TaskID,
			Actor:     ev.Actor,
			Details:   ev.Details,
		}
	}

	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t *models.Task) taskOutput {
	out := taskOutput{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Project:     t.Project,
		ClaimedBy:   t.ClaimedBy,
		Tags:        t.Tags,
		DependsOn:   t.DependsOn,
		Created:     t.CreatedAt.Format(time.RFC3339),
		Modified:    t.ModifiedAt.Format(time.RFC3339),
		Urgency:     t.Urgency,
	}
	if t.Due != nil {
		out.Due = t.Due.Format(time.RFC3339)
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
