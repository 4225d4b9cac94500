package grid

import "testing"

func TestRect_Outset(t *testing.T) {
	r := NewRect(100, 100, 50, 30).Outset(200)

	want := Rect{X: -100, Y: -100, Width: 450, Height: 430}
	if r != want {
		t.Errorf("Outset(200) = %+v, want %+v", r, want)
	}
}

func TestRect_Intersects(t *testing.T) {
	type tc struct {
		a, b Rect
		want bool
	}

	tests := map[string]tc{
		"overlapping": {
			a:    NewRect(0, 0, 100, 100),
			b:    NewRect(50, 50, 100, 100),
			want: true,
		},
		"disjoint": {
			a:    NewRect(0, 0, 100, 100),
			b:    NewRect(500, 500, 100, 100),
			want: false,
		},
		"touching edges do not overlap": {
			a:    NewRect(0, 0, 100, 100),
			b:    NewRect(100, 0, 100, 100),
			want: false,
		},
		"contained": {
			a:    NewRect(0, 0, 100, 100),
			b:    NewRect(25, 25, 10, 10),
			want: true,
		},
		"empty never intersects": {
			a:    NewRect(0, 0, 0, 0),
			b:    NewRect(0, 0, 100, 100),
			want: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRect_Contains(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if !r.Contains(5, 10) {
		t.Error("Contains(top-left) = false, want true")
	}
	if r.Contains(25, 10) {
		t.Error("Contains(right edge) = true, want false (exclusive)")
	}
	if r.Contains(5, 25) {
		t.Error("Contains(bottom edge) = true, want false (exclusive)")
	}
}
