package summarizer

import (
	"context"
)

// Message roles understood by the generation capability.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged message of a generation request.
type Message struct {
	Role    string
	Content string
}

// Generator produces free-form text for an ordered list of messages
// using the given model. Implementations are synchronous; any timeout
// belongs to the implementation's own client configuration.
type Generator interface {
	Generate(ctx context.Context, model string, messages []Message) (string, error)
}
