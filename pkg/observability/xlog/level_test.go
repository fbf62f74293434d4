package xlog_test

import (
	"testing"

	"github.com/omeyang/xlogkit/pkg/observability/xlog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    xlog.Level
		wantErr bool
	}{
		{"debug", xlog.LevelDebug, false},
		{" INFO ", xlog.LevelInfo, false},
		{"log", xlog.LevelInfo, false},
		{"Warning", xlog.LevelWarn, false},
		{"warn", xlog.LevelWarn, false},
		{"error", xlog.LevelError, false},
		{"trace", xlog.LevelInfo, true},
		{"", xlog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := xlog.ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level xlog.Level
		want  string
	}{
		{xlog.LevelDebug, "DEBUG"},
		{xlog.LevelInfo, "INFO"},
		{xlog.LevelWarn, "WARN"},
		{xlog.LevelError, "ERROR"},
		{xlog.LevelInfo + 2, "INFO+2"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevel_Text(t *testing.T) {
	data, err := xlog.LevelWarn.MarshalText()
	if err != nil || string(data) != "WARN" {
		t.Fatalf("MarshalText() = %q, %v", data, err)
	}

	var l xlog.Level
	if err := l.UnmarshalText([]byte("error")); err != nil {
		t.Fatalf("UnmarshalText error: %v", err)
	}
	if l != xlog.LevelError {
		t.Errorf("UnmarshalText = %v, want ERROR", l)
	}
	if err := l.UnmarshalText([]byte("nope")); err == nil {
		t.Error("UnmarshalText should fail on unknown level")
	}
	if l != xlog.LevelError {
		t.Errorf("failed UnmarshalText must not modify level, got %v", l)
	}
}
