package logger

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcapzh/ana/internal/model"
)

type memorySink struct {
	mu      sync.Mutex
	entries []model.LogEntry
	err     error
}

func (m *memorySink) AppendLog(entry model.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func TestStream_AppendKeepsOrderAndDefaultsLevel(t *testing.T) {
	s := NewStream(Nop(), 0)

	s.Append("", "开始扫描")
	s.Warn("发现 1 个警告")
	s.Error("生成失败")

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, model.LogInfo, entries[0].Level)
	assert.Equal(t, "开始扫描", entries[0].Message)
	assert.Equal(t, model.LogWarn, entries[1].Level)
	assert.Equal(t, model.LogError, entries[2].Level)
	assert.False(t, entries[0].Time.IsZero())
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestStream_Limit(t *testing.T) {
	s := NewStream(Nop(), 2)
	s.Info("a")
	s.Info("b")
	s.Info("c")

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Message)
	assert.Equal(t, "c", entries[1].Message)
}

func TestStream_SubscribeFIFO(t *testing.T) {
	s := NewStream(Nop(), 0)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Info("1")
	s.Info("2")

	for _, want := range []string{"1", "2"} {
		select {
		case e := <-ch:
			assert.Equal(t, want, e.Message)
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %s", want)
		}
	}

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
}

func TestStream_SinkFailureIsNotFatal(t *testing.T) {
	s := NewStream(Nop(), 0)
	sink := &memorySink{err: errors.New("disk full")}
	s.SetSink(sink)

	s.Success("完成")

	assert.Len(t, sink.entries, 1)
	assert.Len(t, s.Entries(), 1)
}

func TestStream_ConcurrentAppendsPersistInOrder(t *testing.T) {
	s := NewStream(Nop(), 0)
	sink := &memorySink{}
	s.SetSink(sink)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.Info("并发日志")
			}
		}()
	}
	wg.Wait()

	entries := s.Entries()
	require.Len(t, sink.entries, len(entries))
	for i := range entries {
		require.Equal(t, entries[i].ID, sink.entries[i].ID, "index %d", i)
	}
}
