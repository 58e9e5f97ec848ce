package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestNewRenamesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "bountyd", " test ", slog.LevelInfo)
	logger.Info("bounty created", "op", "create")
	logger.Debug("dropped")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	entry := lines[0]
	require.Equal(t, "bounty created", entry["message"])
	require.Equal(t, "INFO", entry["severity"])
	require.Equal(t, "bountyd", entry["service"])
	require.Equal(t, "test", entry["env"])
	require.Equal(t, "create", entry["op"])
	require.Contains(t, entry, "timestamp")
}

func TestNewOmitsEmptyEnv(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "svc", "", nil).Warn("careful")
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.NotContains(t, lines[0], "env")
	require.Equal(t, "WARN", lines[0]["severity"])
}

func TestSetupWritesFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	path := filepath.Join(t.TempDir(), "bounty.log")
	logger := Setup("bountyd", "local", path, slog.LevelDebug)
	logger.Debug("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"message":"to file"`)
}

func TestShort(t *testing.T) {
	require.Equal(t, "abc", Short("abc"))
	require.Equal(t, "1111..1111", Short(common.PublicKey{}.ToBase58()))

	attr := Key("authority", common.PublicKey{})
	require.Equal(t, "authority", attr.Key)
	require.Equal(t, "1111..1111", attr.Value.String())
}
