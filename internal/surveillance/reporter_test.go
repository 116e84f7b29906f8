package surveillance

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	. "heimdall/internal/common"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestLogReporter_TracesScan(t *testing.T) {
	var buf bytes.Buffer
	scanner := New(nil)
	scanner.SetReporter(NewLogReporter(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	scanner.Scan(
		[]Trade{newTrade(1, "100", Buy, tradeTime)},
		[]Order{newOrder(9, "105", Sell, before(time.Hour))},
	)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "examining trade", lines[0]["message"])
	assert.Equal(t, float64(1), lines[0]["trade"])
	assert.Equal(t, "BUY", lines[0]["side"])

	assert.Equal(t, "suspicious item", lines[1]["message"])
	assert.Equal(t, "order", lines[1]["kind"])
	assert.Equal(t, "price", lines[1]["rule"])
	assert.Equal(t, float64(9), lines[1]["id"])
	assert.Equal(t, float64(1), lines[1]["against"])

	assert.Equal(t, "suspicious items found", lines[2]["message"])
	assert.Equal(t, "info", lines[2]["level"])
	assert.Equal(t, float64(1), lines[2]["flags"])
}

func TestLogReporter_InfoLevelOnlySummary(t *testing.T) {
	var buf bytes.Buffer
	scanner := New(nil)
	scanner.SetReporter(NewLogReporter(zerolog.New(&buf).Level(zerolog.InfoLevel)))

	scanner.Scan(
		[]Trade{newTrade(1, "100", Buy, tradeTime)},
		[]Order{newOrder(9, "105", Sell, before(time.Hour))},
	)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "suspicious items found", lines[0]["message"])
}
