package version

import (
	"regexp"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestEngineVersion(t *testing.T) {
	if !semverRegex.MatchString(Engine) {
		t.Errorf("Engine version %q does not match semver format (x.y.z)", Engine)
	}
}

func TestComponent(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"protocol", Protocol},
		{"ws", Protocol},
		{"grpc", Protocol},
		{"cli", Engine},
		{"", Engine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Component(tt.name); got != tt.expected {
				t.Errorf("Component(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"dashscript " + Engine, "protocol " + Protocol, "commit " + Commit} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
