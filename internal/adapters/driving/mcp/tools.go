package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the natural-language question to answer from the indexed documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources"`
	ContextChunks int      `json:"context_chunks"`
	Degraded      bool     `json:"degraded"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	DocumentID string `json:"document_id" jsonschema:"identifier for the document, typically its path"`
	Text       string `json:"text" jsonschema:"the raw document text to chunk and index"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	DocumentID    string `json:"document_id"`
	ChunksIndexed int    `json:"chunks_indexed"`
}

// RemoveInput is the input schema for the remove tool.
type RemoveInput struct {
	DocumentID string `json:"document_id" jsonschema:"identifier of the document to remove from the index"`
}

// RemoveOutput is the output schema for the remove tool.
type RemoveOutput struct {
	DocumentID    string `json:"document_id"`
	ChunksRemoved int    `json:"chunks_removed"`
}

// StatusOutput is the output schema for the status tool.
type StatusOutput struct {
	Ready          bool   `json:"ready"`
	Documents      int    `json:"documents"`
	Chunks         int    `json:"chunks"`
	Embedding      bool   `json:"embedding"`
	Generator      bool   `json:"generator"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
	GeneratorModel string `json:"generator_model,omitempty"`
	Detail         string `json:"detail,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the indexed documents with citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Chunk and index a document so it becomes searchable",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove",
		Description: "Remove a document from the index",
	}, s.handleRemove)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report index readiness and corpus size",
	}, s.handleStatus)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	resp, err := s.ports.Pipeline.Query(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:        resp.Answer,
		Sources:       resp.Sources,
		ContextChunks: resp.ContextChunks,
		Degraded:      resp.Degraded,
	}, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	res, err := s.ports.Pipeline.Ingest(ctx, input.DocumentID, input.Text)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		DocumentID:    res.DocumentID,
		ChunksIndexed: res.ChunksIndexed,
	}, nil
}

// handleRemove handles the remove tool invocation.
func (s *Server) handleRemove(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RemoveInput,
) (*mcp.CallToolResult, RemoveOutput, error) {
	removed, err := s.ports.Pipeline.Remove(ctx, input.DocumentID)
	if err != nil {
		return nil, RemoveOutput{}, err
	}

	return nil, RemoveOutput{
		DocumentID:    input.DocumentID,
		ChunksRemoved: removed,
	}, nil
}

// handleStatus handles the status tool invocation.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatusOutput, error) {
	h := s.ports.Pipeline.Health(ctx)

	return nil, StatusOutput{
		Ready:          h.Ready,
		Documents:      h.Documents,
		Chunks:         h.Chunks,
		Embedding:      h.Embedding,
		Generator:      h.Generator,
		EmbeddingModel: h.EmbeddingModel,
		GeneratorModel: h.GeneratorModel,
		Detail:         h.Detail,
	}, nil
}
