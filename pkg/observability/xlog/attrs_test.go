package xlog_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/omeyang/xlogkit/pkg/observability/xlog"
)

func TestAttrs(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want string
	}{
		{"Err", xlog.Err(errors.New("boom")), xlog.KeyError, "boom"},
		{"Component", xlog.Component("xsink"), xlog.KeyComponent, "xsink"},
		{"Op", xlog.Op("backup"), xlog.KeyOp, "backup"},
		{"File", xlog.File("logs/log.log"), xlog.KeyFile, "logs/log.log"},
		{"Target", xlog.Target("logs/logback/log.202401010900.log"), xlog.KeyTarget, "logs/logback/log.202401010900.log"},
		{"Bucket", xlog.Bucket("2024010110"), xlog.KeyBucket, "2024010110"},
		{"Reason", xlog.Reason("unrecognized"), xlog.KeyReason, "unrecognized"},
		{"LevelName", xlog.LevelName("LOG"), xlog.KeyLevel, "LOG"},
		{"Count", xlog.Count(3), xlog.KeyCount, "3"},
		{"Duration", xlog.Duration(1500 * time.Millisecond), xlog.KeyDuration, "1.5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.key {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.key)
			}
			if got := tt.attr.Value.String(); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErr_Nil(t *testing.T) {
	if a := xlog.Err(nil); !a.Equal(slog.Attr{}) {
		t.Errorf("Err(nil) = %v, want empty attr", a)
	}
}
