package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory keeps session documents in process memory. It backs interviews run
// without a database and the engine tests.
type Memory struct {
	mu    sync.Mutex
	docs  map[string]Document
	order []string
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]Document)}
}

func (m *Memory) Save(_ context.Context, doc Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	stored := cloneDocument(doc)
	now := time.Now().UTC()
	stored["created_at"] = now
	stored["updated_at"] = now

	m.docs[id] = stored
	m.order = append(m.order, id)

	return id, nil
}

func (m *Memory) Update(_ context.Context, id string, doc Document) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.docs[id]
	if !ok {
		return false, nil
	}

	stored := cloneDocument(doc)
	stored["created_at"] = existing["created_at"]
	stored["updated_at"] = time.Now().UTC()
	m.docs[id] = stored

	return true, nil
}

func (m *Memory) Latest(_ context.Context) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.order) == 0 {
		return nil, ErrNotFound
	}

	id := m.order[len(m.order)-1]
	doc := cloneDocument(m.docs[id])
	doc["session_id"] = id

	return doc, nil
}

// Len reports the number of stored sessions.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

func cloneDocument(doc Document) Document {
	cloned := make(Document, len(doc)+2)
	for k, v := range doc {
		cloned[k] = v
	}
	return cloned
}
