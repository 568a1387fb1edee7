package connection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRetry(t *testing.T) {
	retryDelay = 0

	t.Run("stops at the first success", func(t *testing.T) {
		calls := 0
		err := retry(zap.NewNop(), 5, func() error {
			calls++
			if calls < 3 {
				return errors.New("not yet")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns the last error", func(t *testing.T) {
		calls := 0
		boom := errors.New("refused")
		err := retry(zap.NewNop(), 2, func() error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 2, calls)
	})
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", User: "pulse", Password: "secret", Name: "corps", Port: "5432", SSLMode: "disable"}
	assert.Equal(t, "host=db user=pulse password=secret dbname=corps port=5432 sslmode=disable", cfg.DSN())
}
