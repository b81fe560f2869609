package turkish

import "testing"

func TestLowerTurkishCasing(t *testing.T) {
	cases := []struct{ in, want string }{
		{"İstanbul", "istanbul"},
		{"ISPANAK", "ıspanak"},
		{"IŞIK", "ışık"},
		{"ÇİÇEK", "çiçek"},
		{"ĞÜŞÖÇ", "ğüşöç"},
		{"  araba  ", "araba"},
		{"Ev", "ev"},
	}
	for _, c := range cases {
		if got := Lower(c.in); got != c.want {
			t.Errorf("Lower(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLowerIdempotent(t *testing.T) {
	words := []string{"ıspanak", "istanbul", "çiçek", "ev", "yağmur"}
	for _, w := range words {
		if got := Lower(w); got != w {
			t.Errorf("Lower(%q) = %q, expected unchanged", w, got)
		}
	}
}

func TestFirstAndLastLetter(t *testing.T) {
	if r := FirstLetter("Üzüm"); r != 'ü' {
		t.Errorf("FirstLetter(Üzüm) = %c", r)
	}
	if r := LastLetter("dağ"); r != 'ğ' {
		t.Errorf("LastLetter(dağ) = %c", r)
	}
	if r := LastLetter("ARABA"); r != 'a' {
		t.Errorf("LastLetter(ARABA) = %c", r)
	}
	if r := FirstLetter("   "); r != 0 {
		t.Errorf("FirstLetter(blank) = %d, want 0", r)
	}
}
