package infra

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		want  zerolog.Level
	}{
		{"info", false, zerolog.InfoLevel},
		{"warn", false, zerolog.WarnLevel},
		{"nonsense", false, zerolog.InfoLevel},
		{"", false, zerolog.InfoLevel},
		{"warn", true, zerolog.DebugLevel},
	}
	for _, tt := range tests {
		if got := NewLogger(&bytes.Buffer{}, tt.level, tt.debug).GetLevel(); got != tt.want {
			t.Errorf("NewLogger(%q, %v) level = %s, want %s", tt.level, tt.debug, got, tt.want)
		}
	}
}

func TestNewLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "info", false)
	log.Info().Msg("hello")
	if out := buf.String(); !strings.Contains(out, `"service":"family-activity-finder"`) || !strings.Contains(out, `"time":`) {
		t.Errorf("log line = %s", out)
	}
}

func TestNewRedis(t *testing.T) {
	addr := os.Getenv("FAF_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FAF_TEST_REDIS_ADDR not set; skipping integration test")
	}
	client, err := NewRedis(context.Background(), addr)
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	_ = client.Close()
}

func TestNewRedis_Unreachable(t *testing.T) {
	if _, err := NewRedis(context.Background(), "127.0.0.1:1"); err == nil {
		t.Fatal("expected ping failure for a closed port")
	}
}
