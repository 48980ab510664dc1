package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/gridsnake/game/engine"
	"github.com/wricardo/gridsnake/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Grid Snake",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Grid Snake - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Steer the snake to eat apples. Each apple grows the snake by one cell. Running
into your own body ends the game; filling the whole field wins it.

AVAILABLE TOOLS:
- create_session: Create a game session (use manual=true to step it yourself)
- list_sessions / get_session: Inspect sessions
- game_state: Current board and status
- press_key: Steer with ArrowUp/ArrowDown/ArrowLeft/ArrowRight
- tick: Advance a manual session by N ticks
- reset_game: Start a new run in the session
- event_history: Apples, collisions, key presses and resets
- list_configs: Available field configurations
- game_instructions: Full rules`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use (optional, see list_configs)",
				},
				"manual": map[string]interface{}{
					"type":        "boolean",
					"description": "Advance the game only through the tick tool instead of a realtime timer",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, heading, length and status",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "press_key",
		Description: "Steer the snake. The new heading applies from the next tick; reversing onto the body is ignored.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"key": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight"},
					"description": "Arrow key to press",
				},
			},
			Required: []string{"session_id", "key"},
		},
	}, c.handlePressKey)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tick",
		Description: "Advance a manual session by count ticks (stops early when the game ends)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"count": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Number of ticks (default 1, max %d)", engine.MaxTicksPerCall),
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start a new run in the session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "event_history",
		Description: "Get the event history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"apple", "collision", "win", "key", "reset"},
					"description": "Only return events of this type",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleEventHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)
	manual, _ := args["manual"].(bool)

	body := map[string]interface{}{"manual": manual}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mode := "realtime"
	if session.Manual {
		mode = "manual (advance with the tick tool)"
	}
	result := fmt.Sprintf("Created session: %s\nConfig: %s\nMode: %s\n\n%s",
		session.ID, session.ConfigName, mode, formatSnapshot(session.Snapshot))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "-"
		if s.Snapshot != nil {
			status = fmt.Sprintf("%s, length %d", s.Snapshot.Status, s.Snapshot.Length)
		}
		fmt.Fprintf(&result, "- %s (Config: %s, Manual: %v, %s, Created: %s)\n",
			s.ID, s.ConfigName, s.Manual, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var snap engine.Snapshot
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&snap)), nil
}

func (c *Client) handlePressKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	key, _ := args["key"].(string)

	var result service.KeyResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/key"), map[string]string{"key": key}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatKeyResult(&result)), nil
}

func (c *Client) handleTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	count := 1
	if n, ok := args["count"].(float64); ok {
		count = int(n)
	}

	var result service.TickResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/tick"), map[string]int{"count": count}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTickResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message  string           `json:"message"`
		Snapshot *engine.Snapshot `json:"snapshot"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatSnapshot(response.Snapshot))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleEventHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if t, ok := args["type"].(string); ok && t != "" {
		params.Set("type", t)
	}

	path := sessionPath(sessionID, "/events")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&result, "• %s (config_id: %s)\n  %s\n  Field: %dx%d cells, %d ticks/s, snake length %d\n\n",
			config.Name, config.ConfigID, config.Description,
			config.GridWidth, config.GridHeight, config.TickRate, config.SnakeLength)
	}

	return mcp.NewToolResultText(result.String()), nil
}

const instructions = `Grid Snake - Complete Instructions

GAME OBJECTIVE:
Eat apples to grow the snake. The game is won when the snake fills every cell of
the field and lost when the head runs into the body.

GAME MECHANICS:
• Ticks: the snake moves one cell per tick in its current heading
• Apples: eating one adds a cell to the snake and a new apple appears on a free cell
• Edges: leaving the field on one side brings the snake back on the opposite side
• Collision: the head entering any body cell ends the run (status "dead")
• Victory: the snake length reaching the number of cells ends the run (status "won")

STEERING:
• press_key with ArrowUp, ArrowDown, ArrowLeft or ArrowRight
• The key sets the heading used by the NEXT tick; pressing several keys between
  ticks keeps only the last accepted one
• A key pointing straight back (e.g. ArrowLeft while heading right) is ignored

SESSION MODES:
• Realtime sessions tick on their own at the configured rate
• Manual sessions (create_session with manual=true) only move when you call tick,
  which makes them suitable for planning moves step by step

BOARD LEGEND (game_state):
• H - snake head
• o - snake body
• @ - apple
• . - empty cell

STRATEGY TIPS:
• Turn before you reach the apple's row or column, not on it
• Leave yourself an escape route as the snake grows; avoid enclosing the tail
• Use event_history with type=apple to see where apples were eaten

Good luck!`

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nManual: %v\nRunning: %v\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Manual, session.Running,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatSnapshot(session.Snapshot))
}

// formatSnapshot draws the board as text, one character per cell
func formatSnapshot(snap *engine.Snapshot) string {
	if snap == nil {
		return "No game state available"
	}

	var result strings.Builder
	g := snap.Grid

	headCol, headRow := g.ColRow(snap.Head())
	appleCol, appleRow := g.ColRow(snap.Apple)
	fmt.Fprintf(&result, "Tick: %d | Heading: %s | Length: %d | Apples: %d | Status: %s\n",
		snap.Tick, snap.Heading, snap.Length, snap.ApplesEaten, snap.Status)
	fmt.Fprintf(&result, "Head: (%d,%d) | Apple: (%d,%d)\n\n", headCol, headRow, appleCol, appleRow)

	if g.CellSize > 0 {
		body := engine.Occupancy(snap.Snake)
		for row := 0; row < g.Height; row++ {
			for col := 0; col < g.Width; col++ {
				cell := g.CellAt(col, row)
				switch {
				case len(snap.Snake) > 0 && cell == snap.Head():
					result.WriteByte('H')
				case body[cell]:
					result.WriteByte('o')
				case cell == snap.Apple:
					result.WriteByte('@')
				default:
					result.WriteByte('.')
				}
			}
			result.WriteByte('\n')
		}
	}

	switch snap.Status {
	case engine.StatusWon:
		result.WriteString("\n🎉 VICTORY! The snake fills the field.")
	case engine.StatusDead:
		result.WriteString("\n💀 GAME OVER - the snake ran into itself.")
	}

	return result.String()
}

func formatKeyResult(result *service.KeyResult) string {
	status := "✓"
	if !result.Accepted {
		status = "✗"
	}
	return fmt.Sprintf("%s %s: %s\nHeading: %s", status, result.Key, result.Message, result.Heading)
}

func formatTickResult(result *service.TickResult) string {
	var out strings.Builder

	fmt.Fprintf(&out, "Executed %d/%d ticks", result.TicksExecuted, result.RequestedTicks)
	if result.Truncated {
		fmt.Fprintf(&out, " (truncated to %d)", result.Limit)
	}
	out.WriteString("\n")
	if result.StoppedReason != "" {
		fmt.Fprintf(&out, "Stopped: %s\n", result.StoppedReason)
	}

	for _, e := range result.Events {
		fmt.Fprintf(&out, "  tick %d: %s (length %d)\n", e.Tick, e.Type, e.Length)
	}

	out.WriteString("\n")
	out.WriteString(formatSnapshot(&result.Snapshot))
	return out.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var result strings.Builder
	fmt.Fprintf(&result, "Event History (Page %d/%d, Total: %d):\n\n",
		history.Page, history.TotalPages, history.TotalEvents)

	for _, e := range history.Events {
		line := fmt.Sprintf("#%d tick %d %s", e.Number, e.Tick, e.Type)
		if e.Type == engine.EventKey {
			accepted := "ignored"
			if e.Accepted {
				accepted = "accepted"
			}
			line += fmt.Sprintf(" %s (%s)", e.Key, accepted)
		}
		fmt.Fprintf(&result, "%s - length %d\n", line, e.Length)
	}

	if history.HasNext {
		result.WriteString("\nMore events on the next page.")
	}
	return result.String()
}
