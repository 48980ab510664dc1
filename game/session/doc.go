// Package session provides session management for Grid Snake.
//
// The session package implements:
//   - Thread-safe in-memory session storage and retrieval
//   - Unique session ID generation
//   - Case-insensitive session lookup
//
// Core Types:
//
// Manager is the session store used by the game service. Every session owns
// its own engine, so sessions never share a snake, an apple or a heading.
//
// Session Identifiers:
//
// Generated IDs are 4 lower-case hex characters from crypto/rand. Callers may
// also pick their own ID; lookups ignore case.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Sessions are not persisted; a restart starts with an empty store.
package session
