package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		sep   string
		want  []string
	}{
		{"a,b,c", ",", []string{"a", "b", "c"}},
		{" a , b ,, c ", ",", []string{"a", "b", "c"}},
		{"", ",", []string{}},
		{"Casa; Trabalho", ";", []string{"Casa", "Trabalho"}},
		{"Casa, casa, Saúde, CASA", ",", []string{"Casa", "Saúde"}},
	}
	for _, tt := range tests {
		got := SplitAndTrim(tt.input, tt.sep)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitAndTrim(%q, %q): got %v, want %v", tt.input, tt.sep, got, tt.want)
		}
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("IsTTY(buffer): got true, want false")
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("IsTTY(regular file): got true, want false")
	}
}
