package main

import (
	"context"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/wricardo/gridsnake/desktop/client"
)

const (
	headerHeight = 40
	minCellPx    = 12
	pulseSeconds = 0.6
)

var steeringKeys = map[ebiten.Key]string{
	ebiten.KeyArrowUp:    "ArrowUp",
	ebiten.KeyArrowDown:  "ArrowDown",
	ebiten.KeyArrowLeft:  "ArrowLeft",
	ebiten.KeyArrowRight: "ArrowRight",
}

// colors is a config palette resolved for drawing
type colors struct {
	snake, apple, line, grass1, grass2 color.Color
}

func resolveColors(p client.Palette) colors {
	pick := func(hex string, fallback string) color.Color {
		if c, err := colorful.Hex(hex); err == nil {
			return c
		}
		c, _ := colorful.Hex(fallback)
		return c
	}
	return colors{
		snake:  pick(p.Snake, "#001524"),
		apple:  pick(p.Apple, "#C21010"),
		line:   pick(p.Line, "#181818"),
		grass1: pick(p.Grass1, "#A6CF98"),
		grass2: pick(p.Grass2, "#557C55"),
	}
}

// Viewer renders one session and forwards steering keys
type Viewer struct {
	api       *client.Client
	sessionID string
	stream    *client.Stream
	colors    colors

	stateMu sync.Mutex
	state   *client.Snapshot
	status  string

	pulse      *gween.Tween
	pulseScale float32
}

// NewViewer connects to a session
func NewViewer(ctx context.Context, api *client.Client, info *client.SessionInfo) (*Viewer, error) {
	stream, err := api.Connect(ctx, info.ID)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		api:        api,
		sessionID:  info.ID,
		stream:     stream,
		state:      info.Snapshot,
		pulse:      gween.New(0.8, 1.0, pulseSeconds, ease.InOutSine),
		pulseScale: 1,
	}
	if info.GameConfig != nil {
		v.colors = resolveColors(info.GameConfig.Palette)
	} else {
		v.colors = resolveColors(client.Palette{})
	}

	go func() {
		err := stream.Listen(v.apply)
		log.WithField("session", v.sessionID).Infof("Stream closed: %v", err)
		v.setStatus("disconnected")
	}()

	return v, nil
}

func (v *Viewer) apply(msg client.Message) {
	switch msg.Event {
	case "error":
		v.setStatus(fmt.Sprintf("error: %s", msg.Data))
	default:
		if msg.Snapshot == nil {
			return
		}
		v.stateMu.Lock()
		v.state = msg.Snapshot
		v.stateMu.Unlock()
	}
}

func (v *Viewer) setStatus(s string) {
	v.stateMu.Lock()
	v.status = s
	v.stateMu.Unlock()
}

func (v *Viewer) snapshot() (*client.Snapshot, string) {
	v.stateMu.Lock()
	defer v.stateMu.Unlock()
	return v.state, v.status
}

// Update handles input and advances the apple pulse
func (v *Viewer) Update() error {
	for key, name := range steeringKeys {
		if inpututil.IsKeyJustReleased(key) {
			if err := v.stream.SendKey(name); err != nil {
				v.setStatus(fmt.Sprintf("send failed: %v", err))
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if snap, _ := v.snapshot(); snap != nil && snap.Over() {
			go v.reset()
		}
	}

	scale, finished := v.pulse.Update(1.0 / float32(ebiten.TPS()))
	v.pulseScale = scale
	if finished {
		v.pulse = gween.New(scale, 1.8-scale, pulseSeconds, ease.InOutSine)
	}
	return nil
}

func (v *Viewer) reset() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap, err := v.api.Reset(ctx, v.sessionID)
	if err != nil {
		v.setStatus(fmt.Sprintf("reset failed: %v", err))
		return
	}
	v.stateMu.Lock()
	v.state = snap
	v.status = ""
	v.stateMu.Unlock()
}

// Draw paints the header, the checkerboard, grid lines, the apple and the snake
func (v *Viewer) Draw(screen *ebiten.Image) {
	snap, status := v.snapshot()
	if snap == nil {
		ebitenutil.DebugPrintAt(screen, "Waiting for state...", 8, 8)
		return
	}

	px := float32(cellPixels(snap.Grid))
	cs := snap.Grid.CellSize
	top := float32(headerHeight)

	for row := 0; row < snap.Grid.Height; row++ {
		for col := 0; col < snap.Grid.Width; col++ {
			grass := v.colors.grass1
			if (row+col)%2 == 1 {
				grass = v.colors.grass2
			}
			vector.DrawFilledRect(screen, float32(col)*px, top+float32(row)*px, px, px, grass, false)
		}
	}

	for _, l := range snap.Grid.Lines(px, top) {
		vector.StrokeLine(screen, l.X0, l.Y0, l.X1, l.Y1, 1, v.colors.line, false)
	}

	if cs > 0 {
		size := px * v.pulseScale * 0.8
		ax := float32(snap.Apple.X/cs)*px + (px-size)/2
		ay := top + float32(snap.Apple.Y/cs)*px + (px-size)/2
		vector.DrawFilledRect(screen, ax, ay, size, size, v.colors.apple, true)

		for _, c := range snap.Snake {
			x := float32(c.X/cs) * px
			y := top + float32(c.Y/cs)*px
			vector.DrawFilledRect(screen, x, y, px, px, v.colors.snake, false)
			vector.StrokeRect(screen, x, y, px, px, 1, v.colors.line, false)
		}
	}

	header := fmt.Sprintf("Session %s  tick %d  length %d  apples %d  heading %s",
		v.sessionID, snap.Tick, snap.Length, snap.ApplesEaten, snap.Heading)
	ebitenutil.DebugPrintAt(screen, header, 8, 4)

	switch {
	case status != "":
		ebitenutil.DebugPrintAt(screen, status, 8, 20)
	case snap.Status == "won":
		ebitenutil.DebugPrintAt(screen, "VICTORY! Press R to play again", 8, 20)
	case snap.Status == "dead":
		ebitenutil.DebugPrintAt(screen, "GAME OVER. Press R to play again", 8, 20)
	default:
		ebitenutil.DebugPrintAt(screen, "Arrows steer", 8, 20)
	}
}

// Layout sizes the window to the field
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	snap, _ := v.snapshot()
	if snap == nil {
		return 320, 240
	}
	px := cellPixels(snap.Grid)
	return snap.Grid.Width * px, headerHeight + snap.Grid.Height*px
}

// Close closes the stream
func (v *Viewer) Close() error {
	return v.stream.Close()
}

// cellPixels scales tiny cells up so the field stays readable
func cellPixels(g client.Grid) int {
	if g.CellSize < minCellPx {
		return minCellPx
	}
	return g.CellSize
}
