package logger

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/orcapzh/ana/internal/model"
)

// Sink 日志持久化目标
type Sink interface {
	AppendLog(entry model.LogEntry) error
}

const subscriberBuffer = 64

// Stream 界面日志流：按追加顺序保存，并推送给订阅者
type Stream struct {
	// order 保证持久化顺序与 entries 一致
	order sync.Mutex

	mu      sync.RWMutex
	entries []model.LogEntry
	subs    map[chan model.LogEntry]struct{}
	limit   int

	log  *Logger
	sink Sink
	now  func() time.Time
}

// NewStream 创建日志流，limit<=0 表示不限制保留条数
func NewStream(l *Logger, limit int) *Stream {
	if l == nil {
		l = Nop()
	}
	return &Stream{
		subs:  make(map[chan model.LogEntry]struct{}),
		limit: limit,
		log:   l.WithComponent("ui-log"),
		now:   time.Now,
	}
}

// SetSink 设置持久化目标
func (s *Stream) SetSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// Info 追加 info 级别日志
func (s *Stream) Info(message string) model.LogEntry {
	return s.Append(model.LogInfo, message)
}

// Warn 追加 warn 级别日志
func (s *Stream) Warn(message string) model.LogEntry {
	return s.Append(model.LogWarn, message)
}

// Error 追加 error 级别日志
func (s *Stream) Error(message string) model.LogEntry {
	return s.Append(model.LogError, message)
}

// Success 追加 success 级别日志
func (s *Stream) Success(message string) model.LogEntry {
	return s.Append(model.LogSuccess, message)
}

// Append 追加一条日志，级别为空时按 info 处理
func (s *Stream) Append(level model.LogLevel, message string) model.LogEntry {
	if level == "" {
		level = model.LogInfo
	}
	entry := model.LogEntry{
		ID:      uuid.New().String(),
		Time:    s.now().Local(),
		Level:   level,
		Message: strings.TrimSpace(message),
	}

	s.order.Lock()
	defer s.order.Unlock()

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	if s.limit > 0 && len(s.entries) > s.limit {
		s.entries = append([]model.LogEntry(nil), s.entries[len(s.entries)-s.limit:]...)
	}
	for ch := range s.subs {
		select {
		case ch <- entry:
		default:
			// 订阅者消费过慢，丢弃该条推送
		}
	}
	sink := s.sink
	s.mu.Unlock()

	switch level {
	case model.LogError:
		s.log.Errorw(entry.Message)
	case model.LogWarn:
		s.log.Warnw(entry.Message)
	default:
		s.log.Infow(entry.Message, "level", string(level))
	}

	if sink != nil {
		if err := sink.AppendLog(entry); err != nil {
			s.log.Warnw("persist log entry failed", "error", err)
		}
	}
	return entry
}

// Entries 返回当前日志副本
func (s *Stream) Entries() []model.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear 清空日志
func (s *Stream) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Subscribe 订阅新日志，返回的 cancel 必须调用
func (s *Stream) Subscribe() (<-chan model.LogEntry, func()) {
	ch := make(chan model.LogEntry, subscriberBuffer)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
