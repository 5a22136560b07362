package ui

import (
	"slices"
	"testing"
)

func TestSetTheme(t *testing.T) {
	saved := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(saved) })

	for _, name := range []string{"dark", "light", "none", " Light "} {
		if err := SetTheme(name); err != nil {
			t.Errorf("SetTheme(%q) error = %v", name, err)
		}
	}
	if got := GetCurrentTheme().Name; got != "light" {
		t.Errorf("names are trimmed and case-folded, got %q", got)
	}

	if err := SetTheme("orange"); err == nil {
		t.Error("SetTheme(orange) should fail")
	}
	if got := GetCurrentTheme().Name; got != "light" {
		t.Errorf("an unknown name must keep the active theme, got %q", got)
	}
}

func TestThemeNames(t *testing.T) {
	want := []string{"dark", "light", "none"}
	if got := ThemeNames(); !slices.Equal(got, want) {
		t.Errorf("ThemeNames() = %v, want %v", got, want)
	}
}

func TestInitThemeNoColor(t *testing.T) {
	saved := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(saved) })

	InitTheme(true)
	if ColorRed() != "" || ColorReset() != "" || ColorBold() != "" {
		t.Error("colors should be empty when disabled")
	}
	if GetCurrentTUITheme() != NoColorTUITheme {
		t.Error("TUI theme should follow the no-color theme")
	}

	t.Setenv("NO_COLOR", "1")
	t.Setenv(ThemeEnv, "light")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Error("NO_COLOR must win over " + ThemeEnv)
	}
}

func TestInitThemeFromEnv(t *testing.T) {
	saved := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(saved) })

	t.Setenv(ThemeEnv, "light")
	InitTheme(false)
	if GetCurrentTheme().Name != "light" || GetCurrentTUITheme() != LightTUITheme {
		t.Errorf("%s=light not applied, got %q", ThemeEnv, GetCurrentTheme().Name)
	}

	t.Setenv(ThemeEnv, "sepia")
	InitTheme(false)
	if GetCurrentTheme().Name != "dark" || GetCurrentTUITheme() != DarkTUITheme {
		t.Errorf("unknown theme should fall back to dark, got %q", GetCurrentTheme().Name)
	}
}

func TestColorFunctionsFollowTheme(t *testing.T) {
	saved := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(saved) })

	SetCurrentTheme(LightTheme)
	checks := map[string][2]string{
		"red":       {ColorRed(), LightTheme.Error},
		"green":     {ColorGreen(), LightTheme.Success},
		"yellow":    {ColorYellow(), LightTheme.Warning},
		"blue":      {ColorBlue(), LightTheme.Primary},
		"magenta":   {ColorMagenta(), LightTheme.Info},
		"cyan":      {ColorCyan(), LightTheme.Secondary},
		"bold":      {ColorBold(), LightTheme.Bold},
		"underline": {ColorUnderline(), LightTheme.Underline},
		"reset":     {ColorReset(), LightTheme.Reset},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", name, c[0], c[1])
		}
	}
}
