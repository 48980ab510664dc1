// Package api provides HTTP REST API handlers for Grid Snake.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"config_id": "classic", "manual": false})
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Stop and remove a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Latest snapshot
//   - POST /api/sessions/{id}/key - Steer ({"key": "ArrowUp"})
//   - POST /api/sessions/{id}/tick - Advance a manual session ({"count": 10})
//   - POST /api/sessions/{id}/reset - Start a new run
//   - GET /api/sessions/{id}/events - Event history (page, limit, order, type)
//   - GET /api/sessions/{id}/frame.png - Current frame as a PNG image
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get a configuration
//   - POST /api/configs - Save a configuration
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id} - WebSocket stream of snapshots
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status derived from the service
// error: 404 for unknown sessions and configs, 400 for unknown keys and
// invalid configs, 409 for tick calls on realtime sessions.
//
//	{
//	  "error": "session zz: session not found"
//	}
package api
