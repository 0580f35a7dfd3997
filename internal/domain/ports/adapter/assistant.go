package adapter

import "context"

// Greeting is the payload of the one-time welcome fetch.
type Greeting struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// Reply is one assistant answer to a submitted message. Suggestions replace
// the previous set wholesale; an empty list clears nothing by itself.
type Reply struct {
	Text        string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

// AssistantServiceAdapter is the port for the DeepGuard educational
// assistant. Implementations must return *domain.ServiceError when the
// backend answered with a rejection, and a plain wrapped error for transport
// failures; the chat controller picks its fallback copy by that distinction.
type AssistantServiceAdapter interface {
	Welcome(ctx context.Context) (Greeting, error)
	Send(ctx context.Context, message string) (Reply, error)
}
