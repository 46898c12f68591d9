//go:build linux

package platform

import (
	"testing"

	"github.com/1broseidon/tabgroup/internal/x11"
)

func TestGrabGeometry(t *testing.T) {
	start := Rect{X: 100, Y: 100, Width: 400, Height: 300}
	tests := []struct {
		name string
		grab pointerGrab
		x, y int
		want Rect
	}{
		{
			name: "move",
			grab: pointerGrab{mask: GrabMove, start: start, x: 200, y: 200, growsW: 1, growsH: 1},
			x:    250, y: 180,
			want: Rect{X: 150, Y: 80, Width: 400, Height: 300},
		},
		{
			name: "resize bottom right",
			grab: pointerGrab{mask: GrabResize, start: start, x: 450, y: 350, growsW: 1, growsH: 1},
			x:    500, y: 370,
			want: Rect{X: 100, Y: 100, Width: 450, Height: 320},
		},
		{
			name: "resize top left",
			grab: pointerGrab{mask: GrabResize, start: start, x: 120, y: 120, growsW: -1, growsH: -1},
			x:    100, y: 150,
			want: Rect{X: 80, Y: 130, Width: 420, Height: 270},
		},
		{
			name: "resize clamps to minimum",
			grab: pointerGrab{mask: GrabResize, start: start, x: 120, y: 120, growsW: -1, growsH: 1},
			x:    600, y: -400,
			want: Rect{X: 484, Y: 100, Width: 16, Height: 16},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := grabGeometry(&tt.grab, tt.x, tt.y)
			if got != tt.want {
				t.Fatalf("grabGeometry = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWindowType(t *testing.T) {
	tests := map[string]WindowType{
		"":             TypeNormal,
		"normal":       TypeNormal,
		"dialog":       TypeDialog,
		"dock":         TypeDock,
		"notification": TypeUnknown,
		"menu":         TypeUnknown,
	}
	for in, want := range tests {
		if got := windowType(in); got != want {
			t.Errorf("windowType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMaxState(t *testing.T) {
	if got := maxState(x11.WindowState{}); got.Maximized() {
		t.Fatalf("empty state maximized: %v", got)
	}
	if got := maxState(x11.WindowState{MaxVert: true}); got != MaximizedVert {
		t.Fatalf("vert = %v", got)
	}
	if got := maxState(x11.WindowState{Fullscreen: true}); got != MaximizedHorz|MaximizedVert {
		t.Fatalf("fullscreen = %v", got)
	}
}
