package util

import (
	"testing"
	"time"
)

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue bool
		want         bool
	}{
		{"unset uses default", "", true, true},
		{"true", "true", false, true},
		{"yes", "yes", false, true},
		{"one", "1", false, true},
		{"on with spaces", " on ", false, true},
		{"false", "false", true, false},
		{"off", "OFF", true, false},
		{"zero", "0", true, false},
		{"garbage uses default", "maybe", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL_ENV", tt.value)
			if got := ParseBoolEnv("TEST_BOOL_ENV", tt.defaultValue); got != tt.want {
				t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestParseDurationEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue time.Duration
		want         time.Duration
	}{
		{"unset uses default", "", 10 * time.Second, 10 * time.Second},
		{"seconds", "30s", 10 * time.Second, 30 * time.Second},
		{"minutes with spaces", " 2m ", 10 * time.Second, 2 * time.Minute},
		{"garbage uses default", "soon", 10 * time.Second, 10 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION_ENV", tt.value)
			if got := ParseDurationEnv("TEST_DURATION_ENV", tt.defaultValue); got != tt.want {
				t.Errorf("ParseDurationEnv(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
			}
		})
	}
}
