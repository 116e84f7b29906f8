package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"heimdall/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const records = `
trades:
  - {id: 1, price: 100, quantity: 10, side: buy, timestamp: "2024-12-05T14:40"}
  - {id: 2, price: 150, quantity: 5, side: sell, timestamp: "2024-12-05T14:40"}
orders:
  - {id: 1, price: 109, quantity: 10, side: sell, timestamp: "2024-12-05T14:30"}
  - {id: 2, price: 140, quantity: 5, side: buy, timestamp: "2024-12-05T14:10"}
`

func writeRecords(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRun(t *testing.T) {
	for _, workers := range []int{1, 4} {
		cfg := config.Default()
		cfg.Scan.Workers = workers
		var out bytes.Buffer

		require.NoError(t, run(context.Background(), cfg, writeRecords(t, records), &out))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2, "workers=%d", workers)
		assert.Equal(t, "[window] trade id=1 side=BUY price=100 qty=10 ts=2024-12-05T14:40:00Z (against 1)", lines[0])
		assert.Equal(t, "[price] order id=2 side=BUY price=140 qty=5 ts=2024-12-05T14:10:00Z (against 2)", lines[1])
	}
}

func TestRun_InvalidRecords(t *testing.T) {
	var out bytes.Buffer
	path := writeRecords(t, `trades: [{id: 1, price: 100, side: buy}]`)

	err := run(context.Background(), config.Default(), path, &out)

	assert.Error(t, err)
	assert.Empty(t, out.String(), "no partial output on failure")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer

	err := run(ctx, config.Default(), writeRecords(t, records), &out)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}
