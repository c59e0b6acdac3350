package lockwindow_test

import (
	"testing"
	"time"

	"github.com/radieske/fight-picks-platform/pkg/lockwindow"
)

func TestIsLockedBoundary(t *testing.T) {
	start := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one second before lock", start.Add(-lockwindow.LockOffset - time.Second), false},
		{"exactly at lock", start.Add(-lockwindow.LockOffset), true},
		{"one second after lock", start.Add(-lockwindow.LockOffset + time.Second), true},
		{"at event start", start, true},
		{"after event start", start.Add(time.Hour), true},
		{"well before event", start.Add(-24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lockwindow.IsLocked(tt.now, start); got != tt.want {
				t.Errorf("IsLocked(%s) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

// Início desconhecido bloqueia novos picks (fail safe).
func TestIsLockedUnknownStart(t *testing.T) {
	if !lockwindow.IsLocked(time.Now(), time.Time{}) {
		t.Error("IsLocked with zero start = false, want true")
	}
}

func TestIsPast(t *testing.T) {
	start := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)

	if lockwindow.IsPast(start.Add(-time.Minute), start) {
		t.Error("IsPast before start = true, want false")
	}
	if lockwindow.IsPast(start, start) {
		t.Error("IsPast at exact start = true, want false")
	}
	if !lockwindow.IsPast(start.Add(time.Second), start) {
		t.Error("IsPast after start = false, want true")
	}
}

func TestLocksAt(t *testing.T) {
	start := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)
	want := time.Date(2026, 3, 14, 21, 50, 0, 0, time.UTC)

	if got := lockwindow.LocksAt(start); !got.Equal(want) {
		t.Errorf("LocksAt = %s, want %s", got, want)
	}
}
