package format

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/coder/quartz"
)

func TestFormatUint(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{997, "997"},
		{50847534, "50,847,534"},
		{math.MaxUint64, "18,446,744,073,709,551,615"},
	}
	for _, tt := range tests {
		if got := FormatUint(tt.n); got != tt.want {
			t.Errorf("FormatUint(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatNumberString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"7", "7"},
		{"999", "999"},
		{"1000", "1,000"},
		{"499500", "499,500"},
		{"-1234567", "-1,234,567"},
		{"-12", "-12"},
	}
	for _, tt := range tests {
		if got := FormatNumberString(tt.in); got != tt.want {
			t.Errorf("FormatNumberString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "< 1µs"},
		{-time.Second, "< 1µs"},
		{999 * time.Nanosecond, "< 1µs"},
		{time.Microsecond, "1µs"},
		{23*time.Microsecond + 400*time.Nanosecond, "23µs"},
		{3 * time.Millisecond, "3ms"},
		{999*time.Millisecond + 999*time.Microsecond, "999ms"},
		{time.Second, "1s"},
		{1500*time.Millisecond + 400*time.Microsecond, "1.5s"},
		{3 * time.Minute, "3m0s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// TestProgressWithETA_MockClock drives the rate estimate with a mock clock.
func TestProgressWithETA_MockClock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clock := quartz.NewMock(t)
	p := NewProgressWithETAClock(1, clock)

	clock.Advance(2 * time.Second).MustWait(ctx)
	avg, eta := p.UpdateWithETA(0, 0.5)
	if avg != 0.5 {
		t.Fatalf("avg = %f, want 0.5", avg)
	}
	// 50% in 2s leaves 2s at 0.25/s.
	if eta != 2*time.Second {
		t.Errorf("eta = %v, want 2s", eta)
	}
	if got := p.Elapsed(); got != 2*time.Second {
		t.Errorf("Elapsed() = %v, want 2s", got)
	}

	clock.Advance(time.Second).MustWait(ctx)
	if _, eta = p.UpdateWithETA(0, 1.0); eta != 0 {
		t.Errorf("eta at completion = %v, want 0", eta)
	}
}
