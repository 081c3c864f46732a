package semver

import "testing"

func TestCompatible(t *testing.T) {
	tests := []struct {
		expected string
		actual   string
		want     bool
	}{
		{"1.2.0", "1.3.0", true},
		{"1.2.0", "1.2.1", true},
		{"1.2.0", "1.2.0", false},
		{"1.2.5", "1.3.0", true},
		{"1.2.5", "1.2.4", false},
		{"1.2.0", "1.1.9", false},
		{"1.2.0", "2.3.0", false},
		{"2.0.0", "1.9.9", false},
		{"^1.2.0", "1.2.0", true},
		{"^1.2.0", "1.2.1", false},
		{"^1.2.0-beta", "1.2.0-beta", true},
		{"1.2.0-beta", "1.3.0", false},
		{"1.2.0", "1.3.0-beta", false},
		{"1.2.0-a", "1.3.0-b", false},
		{"1.2.0-a", "1.3.0-a", true},
	}

	for _, tt := range tests {
		t.Run(tt.expected+"~"+tt.actual, func(t *testing.T) {
			if got := Compatible(MustParse(tt.expected), MustParse(tt.actual)); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want Ordering
	}{
		{"1.0.0", "1.0.0", Equal},
		{"^1.0.0", "1.0.0", Equal},
		{"1.0.0", "2.0.0", Less},
		{"1.2.0", "1.1.9", Greater},
		{"1.1.1", "1.1.2", Less},
		{"1.0.0-a", "1.0.0-a", Equal},
		{"1.0.0-a", "1.0.0-b", Incomparable},
		{"1.0.0", "9.0.0-a", Incomparable},
		{"9.0.0-a", "1.0.0", Incomparable},
	}

	for _, tt := range tests {
		t.Run(tt.a+"<=>"+tt.b, func(t *testing.T) {
			if got := Compare(MustParse(tt.a), MustParse(tt.b)); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestOrdering_String(t *testing.T) {
	tests := []struct {
		o    Ordering
		want string
	}{
		{Incomparable, "incomparable"},
		{Less, "less"},
		{Equal, "equal"},
		{Greater, "greater"},
		{Ordering(5), "Ordering(5)"},
	}

	for _, tt := range tests {
		if got := tt.o.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
