package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/wricardo/gridsnake/game/engine"
)

type op struct {
	kind       string
	x, y, w, h int
	c          color.Color
}

// recordingSurface keeps every call in order
type recordingSurface struct {
	ops []op
}

func (r *recordingSurface) Clear(x, y, w, h int) {
	r.ops = append(r.ops, op{kind: "clear", x: x, y: y, w: w, h: h})
}

func (r *recordingSurface) FillRect(x, y, w, h int, c color.Color) {
	r.ops = append(r.ops, op{kind: "fill", x: x, y: y, w: w, h: h, c: c})
}

func (r *recordingSurface) DrawLine(x1, y1, x2, y2 int, c color.Color) {
	r.ops = append(r.ops, op{kind: "line", x: x1, y: y1, w: x2, h: y2, c: c})
}

func testSnapshot() engine.Snapshot {
	return engine.Snapshot{
		Grid:    engine.Geometry{CellSize: 16, Width: 4, Height: 3},
		Snake:   []engine.Cell{{X: 32, Y: 16}, {X: 16, Y: 16}},
		Apple:   engine.Cell{X: 48, Y: 32},
		Heading: engine.HeadingRight,
		Status:  engine.StatusRunning,
		Length:  2,
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		hex      string
		expected color.RGBA
		wantErr  bool
	}{
		{"#001524", color.RGBA{0x00, 0x15, 0x24, 0xff}, false},
		{"#C21010", color.RGBA{0xc2, 0x10, 0x10, 0xff}, false},
		{"#fff", color.RGBA{0xff, 0xff, 0xff, 0xff}, false},
		{"green", color.RGBA{}, true},
		{"", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			got, err := ParseColor(tt.hex)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.hex, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParseColor(%q) = %v, expected %v", tt.hex, got, tt.expected)
			}
		})
	}
}

func TestNewPainter_InvalidPalette(t *testing.T) {
	p := engine.DefaultPalette
	p.Line = "not-a-color"
	if _, err := NewPainter(p); err == nil {
		t.Error("Expected error for invalid palette")
	}
}

func TestPainter_DrawOrder(t *testing.T) {
	painter, err := NewPainter(engine.DefaultPalette)
	if err != nil {
		t.Fatalf("Failed to create painter: %v", err)
	}
	colors := painter.Colors()
	snap := testSnapshot()

	surface := &recordingSurface{}
	painter.Paint(surface, snap)

	ops := surface.ops
	cells := snap.Grid.CellCount()
	lines := snap.Grid.Width + snap.Grid.Height
	expected := 1 + cells + lines + 1 + len(snap.Snake)
	if len(ops) != expected {
		t.Fatalf("Expected %d draw calls, got %d", expected, len(ops))
	}

	if ops[0].kind != "clear" || ops[0].w != 64 || ops[0].h != 48 {
		t.Errorf("Expected first call to clear the 64x48 field, got %+v", ops[0])
	}

	for i := 1; i <= cells; i++ {
		o := ops[i]
		if o.kind != "fill" {
			t.Fatalf("Expected background fill at call %d, got %s", i, o.kind)
		}
		col, row := o.x/16, o.y/16
		want := colors.Grass2
		if col%2 == row%2 {
			want = colors.Grass1
		}
		if o.c != want {
			t.Errorf("Cell (%d,%d): expected %v, got %v", col, row, want, o.c)
		}
	}

	for i := 1 + cells; i < 1+cells+lines; i++ {
		if ops[i].kind != "line" || ops[i].c != colors.Line {
			t.Errorf("Expected grid line at call %d, got %+v", i, ops[i])
		}
	}

	apple := ops[1+cells+lines]
	if apple.c != colors.Apple || apple.x != 48 || apple.y != 32 {
		t.Errorf("Expected apple fill at (48,32), got %+v", apple)
	}

	for i, c := range snap.Snake {
		o := ops[2+cells+lines+i]
		if o.c != colors.Snake || o.x != c.X || o.y != c.Y || o.w != 16 {
			t.Errorf("Expected snake fill at %v, got %+v", c, o)
		}
	}
}

func TestPainter_CustomPalette(t *testing.T) {
	p := engine.Palette{Snake: "#ffffff"}
	painter, err := NewPainter(p)
	if err != nil {
		t.Fatalf("Failed to create painter: %v", err)
	}

	if painter.Colors().Snake != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("Expected white snake, got %v", painter.Colors().Snake)
	}
	if painter.Colors().Apple != (color.RGBA{0xc2, 0x10, 0x10, 0xff}) {
		t.Errorf("Expected default apple color, got %v", painter.Colors().Apple)
	}
}

func TestImageSurface_FillAndClip(t *testing.T) {
	s := NewImageSurface(32, 32)
	red := color.RGBA{R: 0xff, A: 0xff}

	s.FillRect(16, 16, 32, 32, red)

	if got := s.Image().RGBAAt(20, 20); got != red {
		t.Errorf("Expected red inside the rectangle, got %v", got)
	}
	if got := s.Image().RGBAAt(10, 10); got == red {
		t.Error("Expected pixels outside the rectangle untouched")
	}

	s.Clear(0, 0, 32, 32)
	if got := s.Image().RGBAAt(20, 20); got.A != 0 {
		t.Errorf("Expected transparent pixel after clear, got %v", got)
	}
}

func TestImageSurface_DrawLine(t *testing.T) {
	s := NewImageSurface(16, 16)
	black := color.RGBA{A: 0xff}

	s.DrawLine(4, 0, 4, 16, black)

	for y := 0; y < 16; y++ {
		if got := s.Image().RGBAAt(4, y); got != black {
			t.Fatalf("Expected line pixel at (4,%d), got %v", y, got)
		}
	}
	if got := s.Image().RGBAAt(5, 3); got == black {
		t.Error("Expected a one pixel wide line")
	}
}

func TestWritePNG(t *testing.T) {
	painter, _ := NewPainter(engine.DefaultPalette)
	snap := testSnapshot()

	var buf bytes.Buffer
	if err := painter.WritePNG(&buf, snap); err != nil {
		t.Fatalf("Failed to write PNG: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Errorf("Expected 64x48 image, got %v", img.Bounds())
	}

	r, g, b, _ := img.At(40, 20).RGBA()
	want := painter.Colors().Snake
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
		t.Errorf("Expected snake color at the head, got %d %d %d", r>>8, g>>8, b>>8)
	}
}
