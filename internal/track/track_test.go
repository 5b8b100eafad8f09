package track

import "testing"

func TestUnplacedHasNoPosition(t *testing.T) {
	p := Unplaced()
	if p.IsPlaced() {
		t.Fatal("expected unplaced")
	}
	if _, ok := p.Position(); ok {
		t.Fatal("expected no position")
	}
	if p.String() != "unplaced" {
		t.Fatalf("unexpected string: %s", p.String())
	}
}

func TestAtCarriesPosition(t *testing.T) {
	p := At(4)
	pos, ok := p.Position()
	if !ok || pos != 4 {
		t.Fatalf("expected placed at 4, got %d ok=%t", pos, ok)
	}
	if p.String() != "4" {
		t.Fatalf("unexpected string: %s", p.String())
	}
}

func TestContains(t *testing.T) {
	cases := []struct {
		n    int
		p    Position
		want bool
	}{
		{n: 5, p: 1, want: true},
		{n: 5, p: 5, want: true},
		{n: 5, p: 0, want: false},
		{n: 5, p: 6, want: false},
	}
	for _, tc := range cases {
		if got := Contains(tc.n, tc.p); got != tc.want {
			t.Fatalf("Contains(%d, %d)=%t want %t", tc.n, tc.p, got, tc.want)
		}
	}
}
