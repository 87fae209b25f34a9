package cli

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// mockPipeline implements driving.Pipeline for command tests.
type mockPipeline struct {
	queryResp driving.QueryResponse
	queryErr  error
	batchResp driving.BatchIngestReport
	batchErr  error
	removed   int
	removeErr error
	health    driving.Health
	lastQuery string
	lastPath  string
}

func (m *mockPipeline) Query(_ context.Context, question string) (driving.QueryResponse, error) {
	m.lastQuery = question
	return m.queryResp, m.queryErr
}

func (m *mockPipeline) Ingest(_ context.Context, documentID, _ string) (driving.IngestResult, error) {
	return driving.IngestResult{DocumentID: documentID}, nil
}

func (m *mockPipeline) IngestPath(_ context.Context, path string) (driving.BatchIngestReport, error) {
	m.lastPath = path
	return m.batchResp, m.batchErr
}

func (m *mockPipeline) Remove(_ context.Context, documentID string) (int, error) {
	m.lastPath = documentID
	return m.removed, m.removeErr
}

func (m *mockPipeline) Health(_ context.Context) driving.Health {
	return m.health
}

// setupTestPipeline swaps the wired pipeline for a mock and returns a
// cleanup func restoring the previous state.
func setupTestPipeline(m *mockPipeline) func() {
	prev := pipeline
	pipeline = m
	return func() {
		pipeline = prev
	}
}
