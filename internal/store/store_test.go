package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendsUnderTest returns every Backend the contract test can reach
// in this environment. Redis joins only when QIKAO_TEST_REDIS_ADDR is
// set; the suite must not require external servers.
func backendsUnderTest(t *testing.T) map[string]Backend {
	t.Helper()

	backends := map[string]Backend{
		"memory": NewMemory(),
	}

	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	backends["sqlite"] = sqlite

	if addr := os.Getenv("QIKAO_TEST_REDIS_ADDR"); addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rds, err := NewRedis(ctx, addr, time.Minute)
		require.NoError(t, err)
		backends["redis"] = rds
	}

	t.Cleanup(func() {
		for _, b := range backends {
			_ = b.Close()
		}
	})
	return backends
}

func TestKV_Contract(t *testing.T) {
	ctx := context.Background()

	for name, backend := range backendsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			kv := backend.Session(gofakeit.UUID())

			t.Run("load absent key", func(t *testing.T) {
				value, ok, err := kv.Load(ctx, KeyCartLines)
				require.NoError(t, err)
				assert.False(t, ok)
				assert.Nil(t, value)
			})

			t.Run("save then load", func(t *testing.T) {
				require.NoError(t, kv.Save(ctx, KeyCheckoutStep, []byte(`"payment"`)))

				value, ok, err := kv.Load(ctx, KeyCheckoutStep)
				require.NoError(t, err)
				require.True(t, ok)
				assert.Equal(t, []byte(`"payment"`), value)
			})

			t.Run("save overwrites", func(t *testing.T) {
				require.NoError(t, kv.Save(ctx, KeyCheckoutStep, []byte(`"delivery"`)))

				value, ok, err := kv.Load(ctx, KeyCheckoutStep)
				require.NoError(t, err)
				require.True(t, ok)
				assert.Equal(t, []byte(`"delivery"`), value)
			})

			t.Run("clear removes", func(t *testing.T) {
				require.NoError(t, kv.Save(ctx, KeyDeliveryForm, []byte(`{}`)))
				require.NoError(t, kv.Clear(ctx, KeyDeliveryForm))

				_, ok, err := kv.Load(ctx, KeyDeliveryForm)
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("clear absent key is a no-op", func(t *testing.T) {
				assert.NoError(t, kv.Clear(ctx, "never-written"))
			})

			t.Run("sessions are isolated", func(t *testing.T) {
				other := backend.Session(gofakeit.UUID())
				require.NoError(t, kv.Save(ctx, KeyCartLines, []byte(`[]`)))

				_, ok, err := other.Load(ctx, KeyCartLines)
				require.NoError(t, err)
				assert.False(t, ok, "one session must never see another's keys")
			})
		})
	}
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Session("s1").Save(ctx, KeyCartLines, []byte(`[{"itemId":"4","quantity":2}]`)))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	value, ok, err := second.Session("s1").Load(ctx, KeyCartLines)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"itemId":"4","quantity":2}]`, string(value))
}

func TestReadError_Unwrap(t *testing.T) {
	inner := assert.AnError
	err := &ReadError{Key: KeyCartLines, Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), KeyCartLines)
}
