package quadtree

import "testing"

func TestRound(t *testing.T) {
	var tests = []struct {
		in, out int
	}{
		{0, 1},
		{2, 2},
		{4, 4},
		{7, 8},
		{1920, 2048},
	}
	for _, tt := range tests {
		if ret := round(tt.in); ret != tt.out {
			t.Errorf("round(%d) = %d, want %d", tt.in, ret, tt.out)
		}
	}
}

func TestTree(t *testing.T) {
	q := New(1920)
	q.SetRegion(Region{9, 9, 9, 9}, 70)
	q.SetRegion(Region{400, 400, 50, 50}, 999)
	q.SetRegion(Region{360, 360, 360, 360}, 123)
	q.SetRegion(Region{300, 300, 360, 360}, 50)

	var tests = []struct {
		x, y int
		out  int
	}{
		{9, 9, 70},
		{13, 10, 70},
		{400, 400, 50},
		{700, 700, 123},
		{1000, 1000, 0},
	}

	for _, tt := range tests {
		if ret := q.Get(tt.x, tt.y); ret != tt.out {
			t.Errorf("q.Get(%d, %d) = %d, want %d", tt.x, tt.y, ret, tt.out)
		}
	}

	if got := q.Area(Region{425, 425, 25, 25}, 999); got != 0 {
		t.Errorf("q.Area for absent value = %d, want 0", got)
	}

	if got := q.Area(Region{425, 425, 25, 25}, 50); got == 0 {
		t.Errorf("q.Area for present value = 0, want > 0")
	}
}

func TestArea(t *testing.T) {
	q := New(100)
	q.SetRegion(Region{0, 0, 50, 40}, 1)
	q.SetRegion(Region{30, 20, 40, 40}, 2)

	if got := q.Area(Region{0, 0, 128, 128}, 2); got != 40*40 {
		t.Errorf("Area(top) = %d, want %d", got, 40*40)
	}
	// 50*40 minus the 20*20 overlap covered by window 2.
	if got := q.Area(Region{0, 0, 128, 128}, 1); got != 50*40-20*20 {
		t.Errorf("Area(bottom) = %d, want %d", got, 50*40-20*20)
	}
	if got := q.Area(Region{0, 0, 10, 10}, 1); got != 100 {
		t.Errorf("Area(clip) = %d, want 100", got)
	}
}

func TestSetRegion_OverwriteCollapses(t *testing.T) {
	q := New(64)
	q.SetRegion(Region{3, 3, 5, 5}, 7)
	q.SetRegion(Region{0, 0, 64, 64}, 9)
	if q.isSplit {
		t.Fatalf("expected full overwrite to collapse children")
	}
	if got := q.Get(4, 4); got != 9 {
		t.Fatalf("Get = %d, want 9", got)
	}
}

func BenchmarkConstruction(b *testing.B) {
	for i := 0; i < b.N; i++ {
		q := New(3840)
		q.SetRegion(Region{0, 0, 3488, 1638}, 1)
		q.SetRegion(Region{1413, 952, 712, 905}, 2)
		q.SetRegion(Region{1600, 751, 2088, 1301}, 3)
		q.SetRegion(Region{0, 0, 1944, 1004}, 4)
		q.SetRegion(Region{343, 338, 804, 484}, 5)
		q.SetRegion(Region{2448, 1213, 1284, 544}, 6)
	}
}
