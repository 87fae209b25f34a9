package mcp

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// mockPipeline implements driving.Pipeline for tests.
type mockPipeline struct {
	queryResp  driving.QueryResponse
	queryErr   error
	ingestRes  driving.IngestResult
	ingestErr  error
	removed    int
	removeErr  error
	health     driving.Health
	lastInput  string
	lastDocID  string
	lastText   string
	batchResp  driving.BatchIngestReport
	batchErr   error
}

func (m *mockPipeline) Query(_ context.Context, question string) (driving.QueryResponse, error) {
	m.lastInput = question
	return m.queryResp, m.queryErr
}

func (m *mockPipeline) Ingest(_ context.Context, documentID, rawText string) (driving.IngestResult, error) {
	m.lastDocID = documentID
	m.lastText = rawText
	return m.ingestRes, m.ingestErr
}

func (m *mockPipeline) IngestPath(_ context.Context, path string) (driving.BatchIngestReport, error) {
	m.lastDocID = path
	return m.batchResp, m.batchErr
}

func (m *mockPipeline) Remove(_ context.Context, documentID string) (int, error) {
	m.lastDocID = documentID
	return m.removed, m.removeErr
}

func (m *mockPipeline) Health(_ context.Context) driving.Health {
	return m.health
}
