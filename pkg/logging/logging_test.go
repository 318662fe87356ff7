package logging

import (
	"log/slog"
	"testing"
)

func TestNumericLevel(t *testing.T) {
	tests := []struct {
		n    int
		want slog.Level
	}{
		{-1, slog.LevelError},
		{0, slog.LevelError},
		{1, slog.LevelWarn},
		{2, slog.LevelInfo},
		{3, slog.LevelDebug},
		{9, slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := NumericLevel(tt.n); got != tt.want {
			t.Errorf("NumericLevel(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "0")
	if got := LevelFromEnv(); got != slog.LevelError {
		t.Errorf("level = %v", got)
	}
	t.Setenv(EnvLogLevel, "garbage")
	if got := LevelFromEnv(); got != slog.LevelInfo {
		t.Errorf("malformed value: level = %v, want info", got)
	}
}

func TestEventBufferRecent(t *testing.T) {
	eb := NewEventBuffer(4)
	for i := 0; i < 6; i++ {
		eb.Add(EventRecord{Type: EventQueueDrop, Channel: i})
	}
	if eb.Len() != 4 {
		t.Fatalf("Len = %d, want 4", eb.Len())
	}
	if eb.Seq() != 6 {
		t.Errorf("Seq = %d, want 6", eb.Seq())
	}

	recent := eb.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("Recent(2) = %d records", len(recent))
	}
	// Newest first.
	if recent[0].Channel != 5 || recent[1].Channel != 4 {
		t.Errorf("order = %d, %d", recent[0].Channel, recent[1].Channel)
	}

	all := eb.Recent(0)
	if len(all) != 4 {
		t.Fatalf("Recent(0) = %d records", len(all))
	}
	// Oldest two were overwritten.
	if all[3].Channel != 2 {
		t.Errorf("oldest surviving record = %d, want 2", all[3].Channel)
	}
}
