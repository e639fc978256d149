package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewPathValidator(t *testing.T) {
	if _, err := NewPathValidator(""); err == nil {
		t.Error("NewPathValidator(\"\") expected error")
	}
	v, err := NewPathValidator("/tmp/pdfwebsign")
	if err != nil {
		t.Fatalf("NewPathValidator() unexpected error: %v", err)
	}
	if v.WorkDir() != "/tmp/pdfwebsign" {
		t.Errorf("WorkDir() = %q", v.WorkDir())
	}
}

func TestPathValidator_ValidatePath(t *testing.T) {
	workDir := t.TempDir()
	v, err := NewPathValidator(workDir)
	if err != nil {
		t.Fatalf("NewPathValidator() unexpected error: %v", err)
	}

	inside := filepath.Join(workDir, "doc.pdf")
	if err := os.WriteFile(inside, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "inside", path: inside},
		{name: "nested inside", path: filepath.Join(workDir, "sub", "doc.pdf")},
		{name: "working directory itself", path: workDir},
		{name: "outside", path: "/etc/passwd", wantErr: true},
		{name: "escape via dotdot", path: filepath.Join(workDir, "..", "escape.pdf"), wantErr: true},
		{name: "empty", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePath(tt.path)
			if tt.wantErr && err == nil {
				t.Errorf("ValidatePath(%q) expected error", tt.path)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidatePath(%q) unexpected error: %v", tt.path, err)
			}
		})
	}
}

func TestPathValidator_NormalizePath(t *testing.T) {
	workDir := t.TempDir()
	v, err := NewPathValidator(workDir)
	if err != nil {
		t.Fatalf("NewPathValidator() unexpected error: %v", err)
	}

	got, err := v.NormalizePath("out.pdf")
	if err != nil {
		t.Fatalf("NormalizePath() unexpected error: %v", err)
	}
	if want := filepath.Join(workDir, "out.pdf"); got != want {
		t.Errorf("NormalizePath() = %q, want %q", got, want)
	}

	if _, err := v.NormalizePath("../outside.pdf"); err == nil {
		t.Error("NormalizePath() escaping the working directory should fail")
	}
}

func TestPathValidator_MissingWorkDirSkipsValidation(t *testing.T) {
	v, err := NewPathValidator(filepath.Join(t.TempDir(), "not-created-yet"))
	if err != nil {
		t.Fatalf("NewPathValidator() unexpected error: %v", err)
	}
	if err := v.ValidatePath("/anywhere/doc.pdf"); err != nil {
		t.Errorf("ValidatePath() before the directory exists should pass, got %v", err)
	}
}
