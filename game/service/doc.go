// Package service provides the business logic layer for Grid Snake.
//
// The service package implements:
//   - Multi-session game management
//   - Realtime session timers and manual tick stepping
//   - Key input routed into each session's heading slot
//   - Event history and rendered PNG frames
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and the
// game engine. A realtime session owns a loop.Runner that ticks the engine at
// the configured rate and hands every snapshot to the SnapshotListener. A
// manual session has no timer; clients advance it with Tick.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithSnapshotListener(hub.BroadcastSnapshot))
//
//	info, err := gameService.CreateSession(ctx, "classic", false)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.PressKey(ctx, info.ID, "ArrowUp")
package service
