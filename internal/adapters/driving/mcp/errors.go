package mcp

import "errors"

// ErrMissingPipeline is returned when the server is built without a
// pipeline port.
var ErrMissingPipeline = errors.New("mcp: pipeline port is required")
