package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [path]", ingestCmd.Use)
}

func TestIngestCmd_HasWatchFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("watch")
	require.NotNil(t, flag, "watch flag should exist")
	assert.Equal(t, "w", flag.Shorthand)
}

func TestIngestCmd_PrintsReport(t *testing.T) {
	mock := &mockPipeline{
		batchResp: driving.BatchIngestReport{
			Succeeded: []driving.IngestResult{
				{DocumentID: "docs/a.md", ChunksIndexed: 3},
				{DocumentID: "docs/b.txt", ChunksIndexed: 2},
			},
			Skipped: []string{"docs/logo.png"},
			Failed:  map[string]string{"docs/broken.md": "invalid utf-8"},
		},
	}
	cleanup := setupTestPipeline(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "docs"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "indexed docs/a.md (3 chunks)")
	assert.Contains(t, out, "skipped docs/logo.png")
	assert.Contains(t, out, "failed  docs/broken.md: invalid utf-8")
	assert.Contains(t, out, "Ingested 2 documents, 5 chunks (1 skipped, 1 failed)")
	assert.Equal(t, "docs", mock.lastPath)
}

func TestIngestCmd_NoPathAndNoCorpusConfigured(t *testing.T) {
	cleanup := setupTestPipeline(&mockPipeline{})
	defer cleanup()

	prev := appCfg.Corpus.Path
	appCfg.Corpus.Path = ""
	defer func() { appCfg.Corpus.Path = prev }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corpus.path")
}
