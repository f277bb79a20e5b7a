package theme

import "testing"

func TestToggle(t *testing.T) {
	light := Theme{}
	if light.Class() != "" || light.Icon() != LightIcon || light.Name() != "light" {
		t.Errorf("light: got class=%q icon=%q name=%q", light.Class(), light.Icon(), light.Name())
	}

	dark := light.Toggle()
	if !dark.Dark || dark.Class() != DarkClass || dark.Icon() != DarkIcon || dark.Name() != "dark" {
		t.Errorf("dark: got class=%q icon=%q name=%q", dark.Class(), dark.Icon(), dark.Name())
	}

	back := dark.Toggle()
	if back != light || back.Class() != light.Class() || back.Icon() != light.Icon() {
		t.Errorf("toggle twice: got %+v, want %+v", back, light)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"dark", true},
		{" DARK ", true},
		{"light", false},
		{"", false},
		{"purple", false},
	}
	for _, tt := range tests {
		if got := Parse(tt.input).Dark; got != tt.want {
			t.Errorf("Parse(%q).Dark: got %v, want %v", tt.input, got, tt.want)
		}
	}
}
