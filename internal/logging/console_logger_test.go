package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

var (
	_ surveyetl.Logger = (*ConsoleLogger)(nil)
	_ surveyetl.Logger = (*NullLogger)(nil)
)

// syncBuffer guards a bytes.Buffer for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestConsoleLogger_Verbose_WhenEnabled(t *testing.T) {
	var buf syncBuffer
	logger := NewConsoleLoggerTo(&buf, true)
	logger.Verbose("test message: %s", "value")

	output := buf.String()
	if !strings.Contains(output, "DBG") || !strings.Contains(output, "test message: value") {
		t.Errorf("Expected debug record with message, got %q", output)
	}
}

func TestConsoleLogger_Verbose_WhenDisabled(t *testing.T) {
	var buf syncBuffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Verbose("test message: %s", "value")

	if output := buf.String(); output != "" {
		t.Errorf("Expected no output, got %q", output)
	}
}

func TestConsoleLogger_Info(t *testing.T) {
	var buf syncBuffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Info("survey %d: %d rows", 1523, 2)

	output := buf.String()
	if !strings.Contains(output, "INF") || !strings.Contains(output, "survey 1523: 2 rows") {
		t.Errorf("Expected info record, got %q", output)
	}
}

func TestConsoleLogger_Error(t *testing.T) {
	var buf syncBuffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Error("error message: %s", "value")

	output := buf.String()
	if !strings.Contains(output, "ERR") || !strings.Contains(output, "error message: value") {
		t.Errorf("Expected error record, got %q", output)
	}
}

func TestConsoleLogger_NoArgsKeepsPercent(t *testing.T) {
	var buf syncBuffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Info("100% done")

	if !strings.Contains(buf.String(), "100% done") {
		t.Errorf("Expected literal message, got %q", buf.String())
	}
}

func TestConsoleLogger_ConcurrentSafety(t *testing.T) {
	var buf syncBuffer
	logger := NewConsoleLoggerTo(&buf, true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 30 {
		t.Errorf("Expected 30 lines, got %d", len(lines))
	}
}

func TestNullLogger_ConcurrentSafety(t *testing.T) {
	logger := NewNullLogger()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}

	wg.Wait()
}

func BenchmarkConsoleLogger_VerboseDisabled(b *testing.B) {
	var buf syncBuffer
	logger := NewConsoleLoggerTo(&buf, false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Verbose("benchmark message %d", i)
	}
}
