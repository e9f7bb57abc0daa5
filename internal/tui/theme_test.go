package tui

import "testing"

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(ThemeDefault) })

	SetTheme(ThemeDracula)
	if CurrentTheme.Name != ThemeDracula {
		t.Errorf("CurrentTheme.Name = %q, want %q", CurrentTheme.Name, ThemeDracula)
	}
	if PrimaryColor != CurrentTheme.Primary {
		t.Error("PrimaryColor not updated after SetTheme")
	}
	if HighColor != CurrentTheme.High {
		t.Error("HighColor not updated after SetTheme")
	}
}

func TestSetThemeUnknownNameIsIgnored(t *testing.T) {
	t.Cleanup(func() { SetTheme(ThemeDefault) })

	SetTheme(ThemeNord)
	SetTheme(ThemeName("does-not-exist"))
	if CurrentTheme.Name != ThemeNord {
		t.Errorf("CurrentTheme.Name = %q, want %q", CurrentTheme.Name, ThemeNord)
	}
}

func TestCycleTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(ThemeDefault) })

	SetTheme(ThemeDefault)
	order := []ThemeName{ThemeDracula, ThemeCatppuccin, ThemeNord, ThemeDefault}
	for _, want := range order {
		if got := CycleTheme(); got != want {
			t.Errorf("CycleTheme() = %q, want %q", got, want)
		}
	}
}
