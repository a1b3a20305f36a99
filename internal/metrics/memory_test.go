package metrics

import "testing"

var sink []byte

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	snap := NewMemoryCollector().Snapshot()
	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
	if snap.Goroutines < 1 {
		t.Errorf("Goroutines = %d, want >= 1", snap.Goroutines)
	}
}

func TestMemoryCollector_DeltaAfterAllocation(t *testing.T) {
	mc := NewMemoryCollector()
	before := mc.Snapshot()
	sink = make([]byte, 1<<20)
	after := mc.Snapshot()

	d := Delta(before, after)
	if d.Allocated < 1<<20 {
		t.Errorf("Allocated = %d, want >= %d", d.Allocated, 1<<20)
	}
}

func TestDelta_NeverNegative(t *testing.T) {
	t.Parallel()
	d := Delta(MemorySnapshot{TotalAlloc: 10, NumGC: 5}, MemorySnapshot{TotalAlloc: 4, NumGC: 2})
	if d.Allocated != 0 || d.GCCycles != 0 {
		t.Errorf("Delta = %+v, want zero", d)
	}
}
