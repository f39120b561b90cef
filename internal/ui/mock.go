package ui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// OutputMessage is one recorded call on MockUserOutput.
type OutputMessage struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// Text returns the message with its arguments applied.
func (m OutputMessage) Text() string {
	return fmt.Sprintf(m.Message, m.Args...)
}

// MockUserOutput records messages for tests. Reports rendered to Writer are
// captured in Buffer.
type MockUserOutput struct {
	mu       sync.RWMutex
	messages []OutputMessage
	level    OutputLevel
	Buffer   bytes.Buffer
}

// NewMockUserOutput creates a mock at OutputNormal level.
func NewMockUserOutput() *MockUserOutput {
	return &MockUserOutput{level: OutputNormal}
}

func (m *MockUserOutput) Info(ctx context.Context, msg string, args ...any) {
	m.record(ctx, "INFO", msg, args)
}

func (m *MockUserOutput) Success(ctx context.Context, msg string, args ...any) {
	m.record(ctx, "SUCCESS", msg, args)
}

func (m *MockUserOutput) Warning(ctx context.Context, msg string, args ...any) {
	m.record(ctx, "WARNING", msg, args)
}

func (m *MockUserOutput) Error(ctx context.Context, msg string, args ...any) {
	m.record(ctx, "ERROR", msg, args)
}

func (m *MockUserOutput) Result(ctx context.Context, msg string, args ...any) {
	m.record(ctx, "RESULT", msg, args)
}

func (m *MockUserOutput) Progress(ctx context.Context, msg string, args ...any) {
	m.record(ctx, "PROGRESS", msg, args)
}

func (m *MockUserOutput) record(ctx context.Context, level, msg string, args []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, OutputMessage{Level: level, Message: msg, Args: args, Context: ctx})
}

func (m *MockUserOutput) SetLevel(level OutputLevel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

func (m *MockUserOutput) IsLevelEnabled(level OutputLevel) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return level <= m.level
}

func (m *MockUserOutput) Writer() io.Writer {
	return &m.Buffer
}

func (m *MockUserOutput) Theme() Theme {
	return PlainTheme()
}

// GetMessages returns a copy of every recorded message.
func (m *MockUserOutput) GetMessages() []OutputMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]OutputMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// GetMessagesByLevel returns recorded messages at level, e.g. "WARNING".
func (m *MockUserOutput) GetMessagesByLevel(level string) []OutputMessage {
	var out []OutputMessage
	for _, msg := range m.GetMessages() {
		if msg.Level == level {
			out = append(out, msg)
		}
	}
	return out
}

// HasMessageContaining reports whether any formatted message contains text.
func (m *MockUserOutput) HasMessageContaining(text string) bool {
	for _, msg := range m.GetMessages() {
		if strings.Contains(msg.Text(), text) {
			return true
		}
	}
	return false
}

// Reset clears recorded messages and the report buffer.
func (m *MockUserOutput) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	m.Buffer.Reset()
}
