package ui

import (
	"slices"
	"testing"
)

func TestGetThemeFallsBackToNightfox(t *testing.T) {
	if got := GetTheme("nope").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(nope) = %q, want Nightfox", got)
	}
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate) = %q, want Slate", got)
	}
}

func TestNextThemeCycles(t *testing.T) {
	names := ThemeNames()
	if len(names) < 2 {
		t.Fatalf("ThemeNames() = %v, want at least two", names)
	}

	current := names[0]
	seen := []string{current}
	for i := 0; i < len(names)-1; i++ {
		current = NextTheme(current)
		seen = append(seen, current)
	}
	if !slices.Equal(seen, names) {
		t.Fatalf("cycle = %v, want %v", seen, names)
	}
	if got := NextTheme(names[len(names)-1]); got != names[0] {
		t.Fatalf("NextTheme(last) = %q, want %q", got, names[0])
	}
	if got := NextTheme("unknown"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, names[0])
	}
}

func TestThemeNamesReturnsCopy(t *testing.T) {
	names := ThemeNames()
	names[0] = "mutated"
	if ThemeNames()[0] == "mutated" {
		t.Fatal("ThemeNames exposed its backing slice")
	}
}

func TestThemesDefineCoreStates(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, state := range []string{"RUNNING", "PENDING"} {
			if th.StateColors[state] == "" {
				t.Fatalf("theme %s has no color for %s", name, state)
			}
		}
		if th.Background == "" || th.Text == "" || th.Surface == "" {
			t.Fatalf("theme %s missing base colors", name)
		}
	}
}
