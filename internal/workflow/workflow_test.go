package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcapzh/ana/internal/apperror"
	"github.com/orcapzh/ana/internal/config"
	"github.com/orcapzh/ana/internal/logger"
	"github.com/orcapzh/ana/internal/model"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type renderCall struct {
	customer  string
	month     string
	overwrite bool
}

// fakeRenderer 按顺序返回预设结果并记录调用
type fakeRenderer struct {
	mu      sync.Mutex
	calls   []renderCall
	results []error
	block   chan struct{}
}

func (f *fakeRenderer) GenerateSingleStatement(_ context.Context, _ config.AppConfig, _ []model.Record, customer, month string, overwrite bool) (model.GenerateResult, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, renderCall{customer, month, overwrite})

	var err error
	if len(f.results) > 0 {
		err = f.results[0]
		f.results = f.results[1:]
	}
	if err != nil {
		return model.GenerateResult{}, err
	}
	return model.GenerateResult{Success: true, Message: "ok", FilePath: "/out/" + customer + "/statement.xlsx"}, nil
}

func newRequest() Request {
	return Request{
		Config:   *config.DefaultConfig(),
		Items:    []model.Record{{Customer: "A", Amount: 1}},
		Customer: "A",
		Month:    "2024年3月",
	}
}

func TestGenerate_Success(t *testing.T) {
	r := &fakeRenderer{}
	w := New(r, nil)

	st, err := w.Generate(context.Background(), newRequest())
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, st.State)
	assert.Equal(t, "/out/A/statement.xlsx", st.FilePath)
	require.Len(t, r.calls, 1)
	assert.False(t, r.calls[0].overwrite)
}

func TestGenerate_MissingOutputPathFailsFast(t *testing.T) {
	r := &fakeRenderer{}
	w := New(r, nil)

	req := newRequest()
	req.Config.Paths.OutputPath = " "
	st, err := w.Generate(context.Background(), req)

	assert.True(t, apperror.Is(err, apperror.CodeConfig))
	assert.Equal(t, StateFailed, st.State)
	assert.Empty(t, r.calls)
}

func TestGenerate_EmptySelectionFailsFast(t *testing.T) {
	r := &fakeRenderer{}
	w := New(r, nil)

	req := newRequest()
	req.Items = nil
	_, err := w.Generate(context.Background(), req)

	assert.True(t, apperror.Is(err, apperror.CodeNoData))
	assert.Empty(t, r.calls)
}

func TestGenerate_ConflictThenConfirm(t *testing.T) {
	r := &fakeRenderer{results: []error{errors.New("FILE_EXISTS: statement.xlsx")}}
	logs := logger.NewStream(logger.Nop(), 0)
	w := New(r, logs)

	st, err := w.Generate(context.Background(), newRequest())
	require.NoError(t, err)
	assert.Equal(t, StateConflict, st.State)
	assert.Contains(t, st.Prompt, "A")
	assert.Contains(t, st.Prompt, "2024年3月")
	require.Len(t, r.calls, 1)

	st, err = w.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, st.State)
	require.Len(t, r.calls, 2)
	assert.True(t, r.calls[1].overwrite)
	assert.Equal(t, 2, st.Attempts)
}

func TestGenerate_ConflictThenDecline(t *testing.T) {
	r := &fakeRenderer{results: []error{apperror.NewFileExists("statement.xlsx")}}
	logs := logger.NewStream(logger.Nop(), 0)
	w := New(r, logs)

	_, err := w.Generate(context.Background(), newRequest())
	require.NoError(t, err)

	st, err := w.Decline()
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, st.State)
	assert.Len(t, r.calls, 1)

	entries := logs.Entries()
	assert.Contains(t, entries[len(entries)-1].Message, "已取消覆盖")

	_, err = w.Confirm(context.Background())
	assert.Error(t, err)
	assert.Len(t, r.calls, 1)
}

func TestGenerate_RetryFailureIsTerminal(t *testing.T) {
	r := &fakeRenderer{results: []error{
		errors.New("FILE_EXISTS: statement.xlsx"),
		errors.New("FILE_EXISTS: statement.xlsx"),
	}}
	w := New(r, nil)

	_, err := w.Generate(context.Background(), newRequest())
	require.NoError(t, err)

	st, err := w.Confirm(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, st.State)
	assert.Len(t, r.calls, 2)

	_, err = w.Confirm(context.Background())
	assert.Error(t, err)
	assert.Len(t, r.calls, 2)
}

func TestGenerate_GenericFailureNotRetried(t *testing.T) {
	r := &fakeRenderer{results: []error{errors.New("permission denied")}}
	w := New(r, nil)

	st, err := w.Generate(context.Background(), newRequest())
	require.Error(t, err)
	assert.Equal(t, StateFailed, st.State)
	assert.Equal(t, "permission denied", st.Error)
	assert.Len(t, r.calls, 1)
}

func TestGenerate_NeverOverwritesWithoutConflict(t *testing.T) {
	r := &fakeRenderer{}
	w := New(r, nil)

	_, err := w.Confirm(context.Background())
	assert.Error(t, err)
	assert.Empty(t, r.calls)
}

func TestGenerate_NewRequestDuringConflictDeclinesPrevious(t *testing.T) {
	r := &fakeRenderer{results: []error{errors.New("FILE_EXISTS: a.xlsx")}}
	w := New(r, nil)

	_, err := w.Generate(context.Background(), newRequest())
	require.NoError(t, err)

	req := newRequest()
	req.Customer = "B"
	st, err := w.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, st.State)
	require.Len(t, r.calls, 2)
	assert.Equal(t, "B", r.calls[1].customer)
	assert.False(t, r.calls[1].overwrite)
}

func TestGenerate_BusyWhileInFlight(t *testing.T) {
	r := &fakeRenderer{block: make(chan struct{})}
	w := New(r, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = w.Generate(context.Background(), newRequest())
	}()

	require.Eventually(t, func() bool {
		return w.Status().State == StateRequesting
	}, timeout, tick)

	_, err := w.Generate(context.Background(), newRequest())
	assert.True(t, apperror.Is(err, apperror.CodeBusy))

	close(r.block)
	<-done
	assert.Equal(t, StateSuccess, w.Status().State)
	assert.Len(t, r.calls, 1)
}

func TestRun_UsesConfirmCallback(t *testing.T) {
	r := &fakeRenderer{results: []error{errors.New("FILE_EXISTS: a.xlsx")}}
	w := New(r, nil)

	var prompt string
	st, err := w.Run(context.Background(), newRequest(), func(p string) bool {
		prompt = p
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, st.State)
	assert.NotEmpty(t, prompt)

	r.results = []error{errors.New("FILE_EXISTS: a.xlsx")}
	st, err = w.Run(context.Background(), newRequest(), func(string) bool { return false })
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, st.State)
}

func TestStateTransitions(t *testing.T) {
	_, err := StateConflict.next(evStart)
	assert.Error(t, err)

	to, err := StateRequesting.next(evConflict)
	require.NoError(t, err)
	assert.Equal(t, StateConflict, to)

	_, err = StateRetrying.next(evConflict)
	assert.Error(t, err)
	assert.True(t, StateRetrying.InFlight())
	assert.True(t, StateCancelled.Terminal())
}
