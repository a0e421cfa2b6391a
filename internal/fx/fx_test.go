package fx

import "testing"

func TestSinCosTurnCardinalPoints(t *testing.T) {
	cases := []struct {
		name string
		turn Q16
		want Q16
	}{
		{"zero", 0, 0},
		{"quarter", Q16Turn / 4, Q16One},
		{"half", Q16Turn / 2, 0},
		{"three_quarter", (Q16Turn * 3) / 4, -Q16One},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SinTurn(c.turn); got != c.want {
				t.Fatalf("SinTurn(%d) = %d, want %d", c.turn, got, c.want)
			}
		})
	}

	if got := CosTurn(0); got != Q16One {
		t.Fatalf("CosTurn(0) = %d, want %d", got, Q16One)
	}
	if got := CosTurn(Q16Turn / 4); got != 0 {
		t.Fatalf("CosTurn(1/4) = %d, want 0", got)
	}
}

func TestSinTurnNormalizesOutOfRange(t *testing.T) {
	// Adding whole turns must not change the result; turns wrap via masking.
	base := SinTurn(Q16Turn / 8)
	wrapped := SinTurn(Q16Turn/8 + Q16Turn*3)
	if base != wrapped {
		t.Fatalf("SinTurn not periodic: base=%d wrapped=%d", base, wrapped)
	}
}

func TestIntSqrtPerfectSquares(t *testing.T) {
	for _, k := range []uint64{0, 1, 2, 3, 7, 1000, 1 << 15, 1 << 20, 1<<31 - 1} {
		got := IntSqrt(k * k)
		if got != k {
			t.Fatalf("IntSqrt(%d^2) = %d, want %d", k, got, k)
		}
	}
}

func TestIntSqrtFloors(t *testing.T) {
	if got := IntSqrt(8); got != 2 {
		t.Fatalf("IntSqrt(8) = %d, want 2", got)
	}
	if got := IntSqrt(15); got != 3 {
		t.Fatalf("IntSqrt(15) = %d, want 3", got)
	}
}

func TestQ16DivByZero(t *testing.T) {
	if got := Q16One.Div(0); got != q16Max {
		t.Fatalf("positive/0 = %d, want max", got)
	}
	if got := (-Q16One).Div(0); got != q16Min {
		t.Fatalf("negative/0 = %d, want min", got)
	}
}

func TestQ48DivByZero(t *testing.T) {
	if got := Q48One.Div(0); got != q48Max {
		t.Fatalf("positive/0 = %d, want max", got)
	}
	if got := (-Q48One).Div(0); got != q48Min {
		t.Fatalf("negative/0 = %d, want min", got)
	}
}

func TestQ16MulSaturates(t *testing.T) {
	big := FromInt(1 << 14)
	got := big.Mul(big)
	if got != q16Max {
		t.Fatalf("overflow mul = %d, want saturated max", got)
	}
}

func TestQ48MulRoundTrip(t *testing.T) {
	a := Q48FromInt(1000)
	half := Q48One.Div(Q48FromInt(2))
	got := a.Mul(half)
	want := Q48FromInt(500)
	if got != want {
		t.Fatalf("1000 * 0.5 = %d, want %d", got, want)
	}
}

func TestQ48SatSub(t *testing.T) {
	a := Q48FromInt(5)
	b := Q48FromInt(10)
	if got := a.SatSub(b); got != 0 {
		t.Fatalf("SatSub underflow = %d, want 0", got)
	}
}

func TestClamp01(t *testing.T) {
	if got := Q16(-5).Clamp01(); got != 0 {
		t.Fatalf("clamp negative = %d, want 0", got)
	}
	if got := (Q16One * 2).Clamp01(); got != Q16One {
		t.Fatalf("clamp above one = %d, want Q16One", got)
	}
}
