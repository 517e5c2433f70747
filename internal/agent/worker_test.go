package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/bus"
)

func TestWorkerExecuteSuccess(t *testing.T) {
	w := New("currency", func(ctx context.Context, input map[string]any) (map[string]any, error) {
		return map[string]any{"rate": 0.92}, nil
	})

	res := w.Execute(context.Background(), map[string]any{"from": "USD", "to": "EUR"})

	assert.Equal(t, ResultStatusSuccess, res.Status)
	assert.Equal(t, 0.92, res.Data["rate"])
	assert.Empty(t, res.Errors)
	assert.GreaterOrEqual(t, res.Elapsed, time.Duration(0))
}

func TestWorkerExecuteFailure(t *testing.T) {
	w := New("visa", func(ctx context.Context, input map[string]any) (map[string]any, error) {
		return nil, errors.New("registry unavailable")
	})

	res := w.Execute(context.Background(), nil)

	assert.Equal(t, ResultStatusFailure, res.Status)
	assert.Equal(t, []string{"registry unavailable"}, res.Errors)
	assert.Empty(t, res.Data)
}

func TestWorkerExecutePartial(t *testing.T) {
	w := New("hotels", func(ctx context.Context, input map[string]any) (map[string]any, error) {
		return map[string]any{"options": 2}, errors.New("third provider timed out")
	})

	res := w.Execute(context.Background(), nil)

	assert.Equal(t, ResultStatusPartial, res.Status)
	assert.Equal(t, 2, res.Data["options"])
	assert.Contains(t, res.Errors, "third provider timed out")
}

func TestWorkerExecuteRecoversFromPanic(t *testing.T) {
	w := New("flights", func(ctx context.Context, input map[string]any) (map[string]any, error) {
		panic("index out of range")
	})

	res := w.Execute(context.Background(), nil)

	require.Equal(t, ResultStatusFailure, res.Status)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "panicked")
	assert.Contains(t, res.Errors[0], "index out of range")
}

func TestWorkerExecuteCancelledContext(t *testing.T) {
	called := false
	w := New("weather", func(ctx context.Context, input map[string]any) (map[string]any, error) {
		called = true
		return map[string]any{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := w.Execute(ctx, nil)

	assert.Equal(t, ResultStatusFailure, res.Status)
	assert.False(t, called, "body must not run after context cancellation")
}

func TestAfterHookAlwaysRuns(t *testing.T) {
	tests := []struct {
		name string
		fn   ExecuteFunc
		want ResultStatus
	}{
		{
			name: "on success",
			fn: func(ctx context.Context, input map[string]any) (map[string]any, error) {
				return map[string]any{}, nil
			},
			want: ResultStatusSuccess,
		},
		{
			name: "on failure",
			fn: func(ctx context.Context, input map[string]any) (map[string]any, error) {
				return nil, errors.New("nope")
			},
			want: ResultStatusFailure,
		},
		{
			name: "on panic",
			fn: func(ctx context.Context, input map[string]any) (map[string]any, error) {
				panic("boom")
			},
			want: ResultStatusFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *Result
			w := New("probe", tt.fn, WithAfterHook(func(ctx context.Context, b bus.Bus, input map[string]any, res *Result) {
				seen = res
			}))

			w.Execute(context.Background(), nil)

			require.NotNil(t, seen, "after hook did not run")
			assert.Equal(t, tt.want, seen.Status)
		})
	}
}

func TestAfterHookCanEmitToBus(t *testing.T) {
	b := bus.NewInMemoryBus()

	w := New("weather", func(ctx context.Context, input map[string]any) (map[string]any, error) {
		return map[string]any{"severity": "severe"}, nil
	},
		WithBus(b),
		WithAfterHook(func(ctx context.Context, mb bus.Bus, input map[string]any, res *Result) {
			if res.Data["severity"] == "severe" {
				_ = mb.Send(bus.NewMessage("weather", "documents", bus.WeatherAdvisoryPayload{
					Destination: "Bergen",
					Severity:    "severe",
				}))
			}
		}))

	w.Execute(context.Background(), nil)

	got := b.Drain("documents", bus.Filter{Types: []bus.MessageType{bus.MessageWeatherAdvisory}})
	require.Len(t, got, 1)
	assert.Equal(t, "weather", got[0].From)
}

func TestMetricsRegistryRecordsExecutions(t *testing.T) {
	reg := NewMetricsRegistry()

	ok := New("currency", func(ctx context.Context, input map[string]any) (map[string]any, error) {
		return map[string]any{}, nil
	}, WithMetrics(reg))
	bad := New("visa", func(ctx context.Context, input map[string]any) (map[string]any, error) {
		return nil, errors.New("down")
	}, WithMetrics(reg))

	ok.Execute(context.Background(), nil)
	ok.Execute(context.Background(), nil)
	bad.Execute(context.Background(), nil)

	snap := reg.Snapshot()
	assert.Equal(t, 2, snap["currency"].Executions)
	assert.Equal(t, 0, snap["currency"].Errors)
	assert.Equal(t, 1, snap["visa"].Executions)
	assert.Equal(t, 1, snap["visa"].Errors)
}
