package executor

import (
	"context"

	"go-assistant/internal/features/tokenusage"
)

// Credentials is the AI provider credential resolved per user.
type Credentials struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// CommerceCredentials is the external commerce API credential the agent's
// tools authenticate with.
type CommerceCredentials struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
}

// Request describes one agent conversation turn to run inside a thread.
type Request struct {
	// RequestID correlates log lines across the stream's lifetime.
	RequestID string
	ThreadID  string
	UserText  string
	AI        Credentials
	Commerce  CommerceCredentials
	// ApproveAllTools must be true for unattended (scheduled) runs so the
	// conversation never blocks on an interactive approval prompt.
	ApproveAllTools bool
}

type ChunkType string

const (
	ChunkContent ChunkType = "content"
	ChunkUsage   ChunkType = "usage"
	ChunkError   ChunkType = "error"
)

// Chunk is one streamed event. The scheduler core drains the stream without
// interpreting content; it only reacts to error chunks.
type Chunk struct {
	Type    ChunkType
	Content string
	Usage   *tokenusage.UsageDelta
	Err     error
}

// Executor runs an agent conversation and streams its output. The channel is
// closed when the conversation finishes, successfully or not; an error chunk
// precedes the close on failure.
type Executor interface {
	Execute(ctx context.Context, req Request) (<-chan Chunk, error)
}
