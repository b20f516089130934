package validate

import "testing"

func TestRequired(t *testing.T) {
	if Required("  \t") {
		t.Fatalf("blank value must not pass")
	}
	if !Required(" u1 ") {
		t.Fatalf("non-blank value must pass")
	}
}

func TestLimit(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{raw: "", want: 0, ok: true},
		{raw: " 25 ", want: 25, ok: true},
		{raw: "-1", ok: false},
		{raw: "ten", ok: false},
	}
	for _, tc := range cases {
		got, ok := Limit(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("Limit(%q): got %d,%v want %d,%v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}
