package render

import "testing"

func TestHintsMerge(t *testing.T) {
	tests := []struct {
		name     string
		h        Hints
		fallback Hints
		want     Hints
	}{
		{
			name:     "all unset inherits fallback",
			h:        Hints{},
			fallback: Hints{Width: 8, Height: 6, DPI: 150},
			want:     Hints{Width: 8, Height: 6, DPI: 150},
		},
		{
			name:     "set fields win",
			h:        Hints{Width: 4},
			fallback: Hints{Width: 8, Height: 6, DPI: 150},
			want:     Hints{Width: 4, Height: 6, DPI: 150},
		},
		{
			name:     "fully set ignores fallback",
			h:        Hints{Width: 1, Height: 2, DPI: 72},
			fallback: Hints{Width: 8, Height: 6, DPI: 150},
			want:     Hints{Width: 1, Height: 2, DPI: 72},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.h.Merge(tt.fallback); got != tt.want {
				t.Errorf("Merge = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHintsComplete(t *testing.T) {
	got := Hints{}.Complete()
	want := Hints{Width: DefaultWidth, Height: DefaultHeight, DPI: DefaultDPI}
	if got != want {
		t.Errorf("Complete = %+v, want %+v", got, want)
	}
}

func TestSessionForce(t *testing.T) {
	yes, no := true, false

	if !(Session{Force: &yes}).Interactive() {
		t.Error("Session with Force=true should be interactive")
	}
	if (Session{Force: &no}).Interactive() {
		t.Error("Session with Force=false should not be interactive")
	}
}

func TestSessionEnvOverride(t *testing.T) {
	t.Setenv("REPKIT_INTERACTIVE", "true")
	if !(Session{}).Interactive() {
		t.Error("REPKIT_INTERACTIVE=true should mark the session interactive")
	}

	t.Setenv("REPKIT_INTERACTIVE", "0")
	if (Session{}).Interactive() {
		t.Error("REPKIT_INTERACTIVE=0 should mark the session non-interactive")
	}
}

func TestSessionEnvMalformedFallsThrough(t *testing.T) {
	// Malformed value is ignored; under go test stdin is not a terminal.
	t.Setenv("REPKIT_INTERACTIVE", "maybe")
	if (Session{}).Interactive() {
		t.Error("malformed REPKIT_INTERACTIVE should fall through to tty detection")
	}
}
