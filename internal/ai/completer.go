package ai

import "context"

// Completer is the opaque text-completion collaborator: one prompt string
// in, one response string out. The core never assumes any structure in the
// response beyond what the interview extractor scrapes from it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
