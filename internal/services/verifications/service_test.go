package verifications

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"indigenousverify/internal/adapters/memory"
	"indigenousverify/internal/domain"
	"indigenousverify/internal/observability"
	"indigenousverify/internal/services/verifier"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)

func newService(t *testing.T, store *memory.Store) *Service {
	t.Helper()
	return New(verifier.New(), store, WithClock(func() time.Time { return fixedNow }))
}

// failingStore returns the configured errors from Load and Save.
type failingStore struct {
	loadErr error
	saveErr error
	saves   int
}

func (f *failingStore) Load(context.Context) (domain.State, error) {
	if f.loadErr != nil {
		return domain.State{}, f.loadErr
	}
	return domain.NewState(), nil
}

func (f *failingStore) Save(context.Context, domain.State) error {
	f.saves++
	return f.saveErr
}

func (f *failingStore) Close() error { return nil }

func TestCheck_RecordsVerdict(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newService(t, store)

	v, err := svc.Check(ctx, "123456789")
	require.NoError(t, err)
	assert.Equal(t, domain.Verdict{
		BusinessNumber: "123456789",
		Status:         domain.StatusVerified,
		RiskScore:      15,
		Verified:       true,
		Timestamp:      "2024-03-01 09:30:00",
	}, v)

	stats, recent, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Total: 1, Verified: 1}, stats)
	require.Len(t, recent, 1)
	assert.Equal(t, v, recent[0])
}

func TestCheck_RepeatedNumberCountsEachTime(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New())

	for i := 0; i < 3; i++ {
		_, err := svc.Check(ctx, "234567890")
		require.NoError(t, err)
	}

	stats, recent, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Total: 3, Rejected: 3}, stats)
	assert.Len(t, recent, 3)
}

func TestCheck_TotalIncreasesByOneAndNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New())

	for i := 0; i < 15; i++ {
		before, _, err := svc.Stats(ctx)
		require.NoError(t, err)

		v, err := svc.Check(ctx, strconv.Itoa(i))
		require.NoError(t, err)

		after, recent, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, before.Total+1, after.Total)
		assert.Equal(t, v, recent[0])
	}

	_, recent, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, recent, domain.RecentLimit)
	assert.Equal(t, "14", recent[0].BusinessNumber)
	assert.Equal(t, "5", recent[domain.RecentLimit-1].BusinessNumber)
}

func TestCheck_HistoryBoundedCountersNot(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newService(t, store)

	for i := 0; i < domain.HistoryLimit+1; i++ {
		_, err := svc.Check(ctx, strconv.Itoa(i))
		require.NoError(t, err)
	}

	state, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.Verifications, domain.HistoryLimit)
	for i, v := range state.Verifications {
		assert.Equal(t, strconv.Itoa(i+1), v.BusinessNumber)
	}
	assert.Equal(t, domain.HistoryLimit+1, state.Stats.Total)
	assert.Equal(t, state.Stats.Total, state.Stats.Verified+state.Stats.Rejected)
}

func TestCheck_ConcurrentChecksKeepEveryUpdate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newService(t, store)

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := svc.Check(ctx, strconv.Itoa(w))
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	stats, _, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, stats.Total)
	assert.Equal(t, perWorker, stats.Verified)
}

func TestCheck_StoreErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("load", func(t *testing.T) {
		store := &failingStore{loadErr: boom}
		svc := New(verifier.New(), store)

		_, err := svc.Check(context.Background(), "1")
		require.ErrorIs(t, err, boom)
		assert.Zero(t, store.saves)

		_, _, err = svc.Stats(context.Background())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("save", func(t *testing.T) {
		store := &failingStore{saveErr: boom}
		svc := New(verifier.New(), store)

		v, err := svc.Check(context.Background(), "1")
		require.ErrorIs(t, err, boom)
		assert.Equal(t, domain.Verdict{}, v)
		assert.Equal(t, 1, store.saves)
	})
}

func TestCheck_RecordsMetrics(t *testing.T) {
	metrics, err := observability.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	svc := New(verifier.New(), memory.New(), WithMetrics(metrics))

	_, err = svc.Check(context.Background(), "1")
	require.NoError(t, err)
	_, err = svc.Check(context.Background(), "2")
	require.NoError(t, err)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "verify_verdicts_total")
	assert.Contains(t, names, "verify_store_operation_duration_seconds")
}
