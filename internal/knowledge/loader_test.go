package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qa_data.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeTemp(t, `{"qa_pairs":[
		{"question":"What products do you offer?","answer":"Structured financial products."},
		{"question":"מה ההשקעה המינימלית?","answer":"100,000 ש\"ח"}
	]}`)

	records, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[1].Answer != "100,000 ש\"ח" {
		t.Errorf("records[1].Answer = %q", records[1].Answer)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("LoadFile() error = nil, want error")
	}
}

func TestLoadFileMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{"qa_pairs": [`},
		{"no pairs", `{"qa_pairs": []}`},
		{"empty answer", `{"qa_pairs":[{"question":"q","answer":"  "}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeTemp(t, tt.content))
			if !errors.Is(err, ErrMalformedSet) && tt.name != "invalid json" {
				t.Errorf("LoadFile() error = %v, want %v", err, ErrMalformedSet)
			}
			if err == nil {
				t.Error("LoadFile() error = nil, want error")
			}
		})
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"What is the minimum investment?", "What is the minimum investment"},
		{"hello!!  there,  friend.", "hello there friend"},
		{"מה ההשקעה המינימלית?", "מה ההשקעה המינימלית"},
		{"   spaced   out   ", "spaced out"},
		{"???", ""},
	}
	for _, tt := range tests {
		if got := NormalizeQuery(tt.in); got != tt.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
