package config

import "fmt"

// LoadError is returned by LoadYAML/LoadJSON on any parse or structural
// failure, carrying a source location so a caller can point a user at the
// exact offending field. Line/Column are set only for YAML (1-based,
// 0 means "not available"); Path is a JSON-pointer-shaped string set for
// both formats (e.g. "/models/0/params/mass_j_per_k").
type LoadError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func errAt(path, message string) *LoadError {
	return &LoadError{Path: path, Message: message}
}

func errAtLine(path string, line, column int, message string) *LoadError {
	return &LoadError{Path: path, Line: line, Column: column, Message: message}
}
