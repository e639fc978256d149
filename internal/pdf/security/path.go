// Package security confines all file access to the configured working
// directory. Every user-supplied path, for loading, merging and export
// output alike, passes through here before it is touched.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator validates file paths against a configured working directory.
type PathValidator struct {
	workDir string
}

// NewPathValidator creates a path validator for the given working directory.
// The directory does not have to exist yet; validation is skipped until it
// does.
func NewPathValidator(workDir string) (*PathValidator, error) {
	if workDir == "" {
		return nil, fmt.Errorf("working directory cannot be empty")
	}
	return &PathValidator{workDir: workDir}, nil
}

// WorkDir returns the configured working directory.
func (v *PathValidator) WorkDir() string {
	return v.workDir
}

// ValidatePath checks that the path lies within the working directory.
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if _, err := os.Stat(v.workDir); os.IsNotExist(err) {
		return nil
	}

	within, err := v.isWithinWorkDir(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return fmt.Errorf("path is outside the working directory: %s", path)
	}
	return nil
}

// NormalizePath resolves a possibly relative path against the working
// directory and validates the result.
func (v *PathValidator) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	path = strings.ReplaceAll(path, "\x00", "")
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.workDir, path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := v.ValidatePath(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// isWithinWorkDir reports whether the path, with symlinks resolved, has the
// working directory as a prefix.
func (v *PathValidator) isWithinWorkDir(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	absDir, err := filepath.Abs(v.workDir)
	if err != nil {
		return false, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(absDir)

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}
	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	pathOK := hasDirPrefix(cleanPath, cleanDir) || hasDirPrefix(cleanPath, realDir)
	realPathOK := hasDirPrefix(realPath, cleanDir) || hasDirPrefix(realPath, realDir)
	return pathOK && realPathOK, nil
}

func hasDirPrefix(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
