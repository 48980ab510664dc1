// Package websocket provides WebSocket transport for Grid Snake.
//
// The websocket package implements:
//   - Live snapshot streaming per session
//   - Key input from clients into the session's heading slot
//   - Connection lifecycle management
//
// Architecture:
//
// A central Hub owns every connection. Each client has a read pump and a
// write pump goroutine; the hub loop serializes registration and broadcast.
//
// Message Protocol:
//
//   - Incoming: {"key": "ArrowUp"}
//   - Outgoing: {"session_id": "ab12", "event": "state_update", "snapshot": {...}}
//
// Key presses are answered to the sender only with a key_result or error event.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	hub.SetInputHandler(func(ctx context.Context, id, key string) (interface{}, error) {
//		return gameService.PressKey(ctx, id, key)
//	})
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
