package tabbar

import (
	"testing"
	"time"
)

func TestFade_InOut(t *testing.T) {
	var f Fade
	f.Show(200 * time.Millisecond)
	if f.State != FadeIn {
		t.Fatalf("state = %v, want fade-in", f.State)
	}
	f.Step(100 * time.Millisecond)
	if a := f.Alpha(); a != 0.5 {
		t.Fatalf("alpha = %f, want 0.5", a)
	}

	// Reversing mid-fade keeps the alpha continuous.
	f.Hide(200 * time.Millisecond)
	if f.State != FadeOut || f.Alpha() != 0.5 {
		t.Fatalf("reverse: state %v alpha %f", f.State, f.Alpha())
	}
	if f.Step(100 * time.Millisecond) {
		t.Fatalf("expected fade-out to finish")
	}
	if f.State != Off || f.Alpha() != 0 {
		t.Fatalf("state %v alpha %f, want off/0", f.State, f.Alpha())
	}
}

func TestFade_ZeroDurationIsImmediate(t *testing.T) {
	var f Fade
	f.Show(0)
	if f.State != On {
		t.Fatalf("state = %v, want on", f.State)
	}
	f.Hide(0)
	if f.State != Off {
		t.Fatalf("state = %v, want off", f.State)
	}
}
