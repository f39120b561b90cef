package logging

import (
	"context"
	"sync"
)

type mockCore struct {
	mu   sync.RWMutex
	logs []LogEntry
}

// MockLogger records log calls for test assertions. Loggers derived through
// With or WithContext share one record list.
type MockLogger struct {
	core    *mockCore
	enabled bool
	kvPairs []any
	ctx     context.Context
}

// LogEntry is one recorded call.
type LogEntry struct {
	Level         LogLevel
	Message       string
	KeysAndValues []any
	Context       context.Context
}

// NewMockLogger creates an enabled mock logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{core: &mockCore{}, enabled: true, ctx: context.Background()}
}

func (m *MockLogger) Debug(ctx context.Context, msg string, keysAndValues ...any) {
	m.record(ctx, LevelDebug, msg, keysAndValues)
}

func (m *MockLogger) Info(ctx context.Context, msg string, keysAndValues ...any) {
	m.record(ctx, LevelInfo, msg, keysAndValues)
}

func (m *MockLogger) Warn(ctx context.Context, msg string, keysAndValues ...any) {
	m.record(ctx, LevelWarn, msg, keysAndValues)
}

func (m *MockLogger) Error(ctx context.Context, msg string, keysAndValues ...any) {
	m.record(ctx, LevelError, msg, keysAndValues)
}

func (m *MockLogger) record(ctx context.Context, level LogLevel, msg string, keysAndValues []any) {
	if !m.enabled {
		return
	}
	kv := make([]any, 0, len(m.kvPairs)+len(keysAndValues))
	kv = append(kv, m.kvPairs...)
	kv = append(kv, keysAndValues...)

	m.core.mu.Lock()
	defer m.core.mu.Unlock()
	m.core.logs = append(m.core.logs, LogEntry{Level: level, Message: msg, KeysAndValues: kv, Context: ctx})
}

func (m *MockLogger) With(keysAndValues ...any) Logger {
	kv := make([]any, 0, len(m.kvPairs)+len(keysAndValues))
	kv = append(kv, m.kvPairs...)
	kv = append(kv, keysAndValues...)
	return &MockLogger{core: m.core, enabled: m.enabled, kvPairs: kv, ctx: m.ctx}
}

func (m *MockLogger) WithContext(ctx context.Context) Logger {
	return &MockLogger{core: m.core, enabled: m.enabled, kvPairs: m.kvPairs, ctx: ctx}
}

func (m *MockLogger) IsEnabled(LogLevel) bool { return m.enabled }

// SetEnabled turns recording on or off for this logger.
func (m *MockLogger) SetEnabled(enabled bool) { m.enabled = enabled }

// GetLogs returns a copy of all recorded entries.
func (m *MockLogger) GetLogs() []LogEntry {
	m.core.mu.RLock()
	defer m.core.mu.RUnlock()

	logs := make([]LogEntry, len(m.core.logs))
	copy(logs, m.core.logs)
	return logs
}

// GetLogsByLevel returns recorded entries at level.
func (m *MockLogger) GetLogsByLevel(level LogLevel) []LogEntry {
	var filtered []LogEntry
	for _, entry := range m.GetLogs() {
		if entry.Level == level {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// HasLogWithMessage reports whether any entry has exactly msg.
func (m *MockLogger) HasLogWithMessage(msg string) bool {
	for _, entry := range m.GetLogs() {
		if entry.Message == msg {
			return true
		}
	}
	return false
}

// Reset drops all recorded entries.
func (m *MockLogger) Reset() {
	m.core.mu.Lock()
	defer m.core.mu.Unlock()
	m.core.logs = nil
}
