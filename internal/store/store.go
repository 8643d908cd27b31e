package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no stored session matches the request.
var ErrNotFound = errors.New("session not found")

// Document is the flat persisted form of a session. The store enforces no
// schema beyond what the interview core writes into it.
type Document map[string]any

// Store is the document-oriented persistence collaborator, keyed by an
// opaque identifier assigned on first save. Implementations must be safe
// for concurrent use by unrelated sessions.
type Store interface {
	// Save persists a new document and returns its identifier. It is
	// called once per session.
	Save(ctx context.Context, doc Document) (string, error)
	// Update replaces the stored document, stamping an updated-at time on
	// every call. It reports whether a document was actually updated.
	Update(ctx context.Context, id string, doc Document) (bool, error)
	// Latest returns the most recently created document with its
	// identifier under the "session_id" key.
	Latest(ctx context.Context) (Document, error)
}
