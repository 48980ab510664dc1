// Package mcp provides a Model Context Protocol server for Grid Snake.
//
// The server is a thin client: every tool proxies to the REST API, so an MCP
// agent and a browser watching the same session see the same game.
//
// MCP Tools:
//   - create_session: Create a session, realtime or manual
//   - list_sessions, get_session: Inspect sessions
//   - game_state: Text board with head, body and apple
//   - press_key: Steer with an arrow key
//   - tick: Advance a manual session
//   - reset_game: Start a new run
//   - event_history: Paginated events, optionally filtered by type
//   - list_configs: Available field configurations
//   - game_instructions: Rules and tips
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	http.Handle("/mcp", server.NewStreamableHTTPServer(client.GetMCPServer()))
package mcp
