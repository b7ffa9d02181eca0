package profile

import (
	"slices"
	"testing"
)

// TestStart_NoMode verifies that a profiler without a mode is a no-op.
func TestStart_NoMode(t *testing.T) {
	p := Start(WithPath(t.TempDir()), WithQuiet(true))

	if _, ok := p.(ignore); !ok {
		t.Fatalf("Start() = %T, want no-op", p)
	}

	p.Stop()
	p.Stop()
}

// TestStart_UnknownMode verifies that unknown modes never start a profiler.
func TestStart_UnknownMode(t *testing.T) {
	p := Start(WithMode("bogus"), WithPath(t.TempDir()), WithQuiet(true))

	if _, ok := p.(ignore); !ok {
		t.Fatalf("Start() = %T, want no-op", p)
	}

	p.Stop()
}

// TestModes verifies that modes are listed only when compiled in.
func TestModes(t *testing.T) {
	modes := Modes()

	if Enabled != slices.Contains(modes, "cpu") {
		t.Errorf("Enabled = %v but Modes() = %v", Enabled, modes)
	}

	if !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, want sorted", modes)
	}
}
