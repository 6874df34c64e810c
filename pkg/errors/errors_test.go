package errors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		expected string
	}{
		{
			name:     "wrap nil error",
			err:      nil,
			msg:      "resolving targets",
			expected: "",
		},
		{
			name:     "wrap sentinel",
			err:      ErrNoPackagesRequested,
			msg:      "install",
			expected: "install: no packages requested",
		},
		{
			name:     "wrap standard error",
			err:      errors.New("connection refused"),
			msg:      "querying aur",
			expected: "querying aur: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.err, tt.msg)
			if tt.err == nil {
				if result != nil {
					t.Errorf("Expected nil, got %v", result)
				}
				return
			}
			if result.Error() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Error())
			}
			if !errors.Is(result, tt.err) {
				t.Errorf("Expected wrapped error to contain original error")
			}
		})
	}
}

func TestWrapf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		format   string
		args     []interface{}
		expected string
	}{
		{
			name:     "wrapf nil error",
			err:      nil,
			format:   "saving snapshot %s",
			args:     []interface{}{"20260101-120000"},
			expected: "",
		},
		{
			name:     "wrapf with single arg",
			err:      errors.New("permission denied"),
			format:   "writing %s",
			args:     []interface{}{"state.json"},
			expected: "writing state.json: permission denied",
		},
		{
			name:     "wrapf with multiple args",
			err:      ErrCommandFailed,
			format:   "%s exited with status %d",
			args:     []interface{}{"pacman", 1},
			expected: "pacman exited with status 1: command failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrapf(tt.err, tt.format, tt.args...)
			if tt.err == nil {
				if result != nil {
					t.Errorf("Expected nil, got %v", result)
				}
				return
			}
			if result.Error() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Error())
			}
			if !errors.Is(result, tt.err) {
				t.Errorf("Expected wrapped error to contain original error")
			}
		})
	}
}

func TestWrapKeepsSentinelThroughLayers(t *testing.T) {
	inner := Wrap(ErrCommandFailed, "pacman -U")
	outer := Wrapf(inner, "reinstalling %d packages", 3)

	if !errors.Is(outer, ErrCommandFailed) {
		t.Fatalf("Expected sentinel to survive double wrapping, got %v", outer)
	}
	want := "reinstalling 3 packages: pacman -U: command failed"
	if outer.Error() != want {
		t.Errorf("Expected %q, got %q", want, outer.Error())
	}
}
