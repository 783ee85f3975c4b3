package coords

import "testing"

func TestPlace(t *testing.T) {
	m := Place(480, 105, 90, 22)
	if m != (Matrix{90, 0, 0, 22, 480, 105}) {
		t.Fatalf("Place = %v", m)
	}
	p := m.Transform(Point{X: 1, Y: 1})
	if p.X != 570 || p.Y != 127 {
		t.Fatalf("Transform(1,1) = %+v, want (570,127)", p)
	}
}

func TestMultiplyIdentity(t *testing.T) {
	m := Translate(3, 4)
	if got := m.Multiply(Identity()); got != m {
		t.Fatalf("m×I = %v, want %v", got, m)
	}
	if got := Identity().Multiply(m); got != m {
		t.Fatalf("I×m = %v, want %v", got, m)
	}
}

func TestBounds(t *testing.T) {
	minX, minY, maxX, maxY := Bounds(Point{5, 1}, Point{-2, 7}, Point{3, 3})
	if minX != -2 || minY != 1 || maxX != 5 || maxY != 7 {
		t.Fatalf("Bounds = %v %v %v %v", minX, minY, maxX, maxY)
	}
}
