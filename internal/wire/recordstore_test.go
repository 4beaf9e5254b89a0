package wire

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixprobe/fixprobe/internal/tag"
)

func TestLogStore_ScanDecodesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Current")
	content := "11=TC1_ab\x0135=D\x0139=0\n" +
		"\n" + // blank lines are skipped
		"11=TC2_cd\x0135=F\x0139=2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store := &LogStore{Path: path, Delim: tag.SOH}
	records, err := store.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "TC1_ab", records[0].Value("11"))
	assert.Equal(t, "TC2_cd", records[1].Value("11"))
}

func TestLogStore_MissingFileIsNotAnError(t *testing.T) {
	store := &LogStore{Path: filepath.Join(t.TempDir(), "missing"), Delim: tag.SOH}

	records, err := store.Scan(context.Background())
	require.NoError(t, err, "the counterparty may not have produced output yet")
	assert.Empty(t, records)
}

func TestLogStore_SeesAppendsBetweenScans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Current")
	require.NoError(t, os.WriteFile(path, []byte("11=A\x0135=D\n"), 0o644))

	store := &LogStore{Path: path, Delim: tag.SOH}

	records, err := store.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("11=B\x0135=D\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	records, err = store.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2, "re-reads from the top on every scan")
}

func TestScriptTransport_Success(t *testing.T) {
	tr := &ScriptTransport{Command: "true"}
	assert.NoError(t, tr.Send(context.Background(), "35=D"))
}

func TestScriptTransport_Failure(t *testing.T) {
	tr := &ScriptTransport{Command: "false"}
	assert.Error(t, tr.Send(context.Background(), "35=D"))
}

func TestScriptTransport_NoCommand(t *testing.T) {
	tr := &ScriptTransport{}
	assert.Error(t, tr.Send(context.Background(), "35=D"))
}
