// Package client talks to a Grid Snake server over its REST API and the
// per-session WebSocket stream.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Cell is a pixel-aligned grid position
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid is the field geometry
type Grid struct {
	CellSize int `json:"cell_size"`
	Width    int `json:"width"`
	Height   int `json:"height"`
}

// Segment is a straight line in screen coordinates
type Segment struct {
	X0, Y0, X1, Y1 float32
}

// Lines returns the grid lines of a field drawn with px pixels per cell and
// its top edge at top: one vertical line per column boundary and one
// horizontal line per row boundary, outer edges included.
func (g Grid) Lines(px, top float32) []Segment {
	w, h := float32(g.Width)*px, float32(g.Height)*px
	lines := make([]Segment, 0, g.Width+g.Height+2)
	for col := 0; col <= g.Width; col++ {
		x := float32(col) * px
		lines = append(lines, Segment{x, top, x, top + h})
	}
	for row := 0; row <= g.Height; row++ {
		y := top + float32(row)*px
		lines = append(lines, Segment{0, y, w, y})
	}
	return lines
}

// Snapshot is the game state pushed after every tick
type Snapshot struct {
	RunID       string `json:"run_id"`
	Tick        uint64 `json:"tick"`
	Grid        Grid   `json:"grid"`
	Snake       []Cell `json:"snake"`
	Apple       Cell   `json:"apple"`
	Heading     string `json:"heading"`
	Status      string `json:"status"`
	Length      int    `json:"length"`
	ApplesEaten int    `json:"apples_eaten"`
	Ate         bool   `json:"ate,omitempty"`
	Collided    bool   `json:"collided,omitempty"`
}

// Over reports whether the run has ended
func (s *Snapshot) Over() bool {
	return s.Status == "dead" || s.Status == "won"
}

// Palette holds the hex colors of a config
type Palette struct {
	Snake  string `json:"snake"`
	Apple  string `json:"apple"`
	Line   string `json:"line"`
	Grass1 string `json:"grass1"`
	Grass2 string `json:"grass2"`
}

// GameConfig is the subset of a config the viewer needs
type GameConfig struct {
	Name     string  `json:"name"`
	TickRate int     `json:"tick_rate"`
	Palette  Palette `json:"palette"`
}

// SessionInfo describes a session
type SessionInfo struct {
	ID         string      `json:"id"`
	ConfigName string      `json:"config_name"`
	Manual     bool        `json:"manual"`
	Running    bool        `json:"running"`
	Snapshot   *Snapshot   `json:"snapshot"`
	GameConfig *GameConfig `json:"game_config"`
}

// Message is one frame of the WebSocket stream
type Message struct {
	SessionID string          `json:"session_id"`
	Event     string          `json:"event,omitempty"`
	Snapshot  *Snapshot       `json:"snapshot,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Client is a REST client for one server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
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
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

// CreateSession starts a realtime session on the named config
func (c *Client) CreateSession(ctx context.Context, configID string) (*SessionInfo, error) {
	var info SessionInfo
	body := map[string]interface{}{"config_id": configID}
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetSession fetches a session
func (c *Client) GetSession(ctx context.Context, id string) (*SessionInfo, error) {
	var info SessionInfo
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+url.PathEscape(id), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Reset restarts a session and returns its first snapshot
func (c *Client) Reset(ctx context.Context, id string) (*Snapshot, error) {
	var resp struct {
		Snapshot *Snapshot `json:"snapshot"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+url.PathEscape(id)+"/reset", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Snapshot, nil
}

// StreamURL returns the WebSocket URL for a session
func (c *Client) StreamURL(id string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	u.RawQuery = url.Values{"session": {id}}.Encode()
	return u.String(), nil
}

// Stream is an open WebSocket connection to one session
type Stream struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// Connect opens the session stream
func (c *Client) Connect(ctx context.Context, id string) (*Stream, error) {
	wsURL, err := c.StreamURL(id)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}
	return &Stream{conn: conn}, nil
}

// Listen reads messages and hands each to fn until the connection closes
func (s *Stream) Listen(fn func(Message)) error {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		fn(msg)
	}
}

// SendKey forwards a key identifier such as "ArrowUp"
func (s *Stream) SendKey(key string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(map[string]string{"key": key})
}

// Close closes the connection
func (s *Stream) Close() error {
	return s.conn.Close()
}
