package components

import "testing"

func TestVisibleLenIgnoresEscapes(t *testing.T) {
	styled := "\x1b[1mhej\x1b[22m"
	if got := VisibleLen(styled); got != 3 {
		t.Errorf("VisibleLen(%q) = %d, want 3", styled, got)
	}
	if got := VisibleLen("åäö"); got != 3 {
		t.Errorf("VisibleLen(åäö) = %d, want 3", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"gemenskap", 4, "geme"},
		{"kort", 10, "kort"},
		{"vad som helst", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestEllipsize(t *testing.T) {
	if got := Ellipsize("Relationer", 6); got != "Relat…" {
		t.Errorf("Ellipsize = %q", got)
	}
	if got := Ellipsize("Sömn", 6); got != "Sömn" {
		t.Errorf("short string changed: %q", got)
	}
}

func TestFit(t *testing.T) {
	if got := Fit("ab", 4); got != "ab  " {
		t.Errorf("Fit pad = %q", got)
	}
	if got := Fit("abcdef", 4); VisibleLen(got) != 4 {
		t.Errorf("Fit truncate width = %d", VisibleLen(got))
	}
	if got := Fit("x", 0); got != "" {
		t.Errorf("Fit zero width = %q", got)
	}
}

func TestColumns(t *testing.T) {
	got := Columns([]int{6, 4}, "anna@example.se", "admin", "Anna Andersson")
	if want := "anna@… adm… Anna Andersson"; got != want {
		t.Errorf("Columns = %q, want %q", got, want)
	}
	if got := Columns([]int{6}, "ab", "cd"); got != "ab     cd" {
		t.Errorf("Columns pad = %q", got)
	}
	if got := Columns(nil, "only"); got != "only" {
		t.Errorf("Columns single = %q", got)
	}
}

func TestWrap(t *testing.T) {
	lines := Wrap("en lugn plats att prata", 10)
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %v", lines)
	}
	for _, l := range lines {
		if VisibleLen(l) > 10 {
			t.Errorf("line %q wider than 10", l)
		}
	}
}
