package rng

import "testing"

func TestForWorkerIsDeterministic(t *testing.T) {
	a := ForWorker(42, 3)
	b := ForWorker(42, 3)
	for i := 0; i < 100; i++ {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("draw %d diverged: %d != %d", i, x, y)
		}
	}
}

func TestForWorkerStreamsDiffer(t *testing.T) {
	a := ForWorker(42, 0)
	b := ForWorker(42, 1)
	same := 0
	for i := 0; i < 32; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same == 32 {
		t.Fatal("expected worker streams to differ")
	}
}

func TestIntRangeStaysInBounds(t *testing.T) {
	src := New(7)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := src.IntRange(1, 5)
		if v < 1 || v > 5 {
			t.Fatalf("value out of range: %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 5 {
		t.Fatalf("expected every value in [1,5], saw %v", seen)
	}
}

func TestIntRangeSingleValue(t *testing.T) {
	src := New(1)
	if got := src.IntRange(3, 3); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestIntRangePanicsOnInvertedBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(1).IntRange(2, 1)
}

func TestBoolProducesBothValues(t *testing.T) {
	src := New(99)
	var trues, falses int
	for i := 0; i < 1000; i++ {
		if src.Bool() {
			trues++
		} else {
			falses++
		}
	}
	if trues == 0 || falses == 0 {
		t.Fatalf("expected both outcomes, got true=%d false=%d", trues, falses)
	}
}

func TestSplitIsIndependentOfLaterParentDraws(t *testing.T) {
	parentA := New(5)
	parentB := New(5)
	childA := parentA.Split()
	childB := parentB.Split()
	parentB.Uint64()
	for i := 0; i < 16; i++ {
		if childA.Uint64() != childB.Uint64() {
			t.Fatalf("child streams diverged at draw %d", i)
		}
	}
}

func TestSeedFromClockNonZero(t *testing.T) {
	if SeedFromClock() == 0 {
		t.Fatal("expected non-zero seed")
	}
}
