package logging

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewDefaultsToInfoOnInvalidLevel(t *testing.T) {
	log := New("rgs", "not-a-level", "json")
	if log.Level != logrus.InfoLevel {
		t.Errorf("expected InfoLevel, got %v", log.Level)
	}
}

func TestNewParsesValidLevel(t *testing.T) {
	log := New("rgs", "debug", "json")
	if log.Level != logrus.DebugLevel {
		t.Errorf("expected DebugLevel, got %v", log.Level)
	}
}

func TestNewTextFormat(t *testing.T) {
	log := New("rgs", "info", "text")
	if _, ok := log.Formatter.(*logrus.TextFormatter); !ok {
		t.Errorf("expected TextFormatter, got %T", log.Formatter)
	}
}

func TestWithContextAddsTraceID(t *testing.T) {
	log := New("rgs", "info", "json")
	ctx := context.WithValue(context.Background(), TraceIDKey, "abc-123")
	entry := log.WithContext(ctx)
	if entry.Data["trace_id"] != "abc-123" {
		t.Errorf("expected trace_id to be set, got %+v", entry.Data)
	}
}

func TestEntryHasServiceField(t *testing.T) {
	log := New("rgs", "info", "json")
	entry := log.Entry()
	if entry.Data["service"] != "rgs" {
		t.Errorf("expected service field, got %+v", entry.Data)
	}
}
