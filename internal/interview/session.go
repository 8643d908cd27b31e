package interview

import (
	"fmt"
	"time"

	"github.com/spigell/talentscout/internal/store"

	"github.com/mitchellh/mapstructure"
)

// Stage is the coarse phase marker of a session. Stages other than ended are
// informational: the completion service decides what to ask next, the engine
// only tracks whether the session is over.
type Stage string

const (
	StageAwaitingResume     Stage = "awaiting_resume"
	StageCollectingInfo     Stage = "collecting_info"
	StageTechnicalInterview Stage = "technical_interview"
	StageEnded              Stage = "ended"
)

// Session is one candidate's complete interaction, from resume stage to
// termination. ID stays empty until the store assigns one on first save.
type Session struct {
	ID         string
	Stage      Stage
	Ended      bool
	Profile    Profile
	Transcript Transcript
	StartedAt  time.Time
	LastActive time.Time
}

func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		Stage:      StageAwaitingResume,
		StartedAt:  now,
		LastActive: now,
	}
}

// Document flattens the session into a persistable document.
func (s *Session) Document() store.Document {
	doc := s.Profile.document()
	doc["conversation_history"] = s.Transcript.Messages()
	doc["stage"] = string(s.Stage)
	doc["ended"] = s.Ended
	doc["session_start"] = s.StartedAt
	doc["last_active"] = s.LastActive
	return doc
}

// sessionDocument mirrors the persisted layout for decoding.
type sessionDocument struct {
	Profile             Profile   `mapstructure:",squash"`
	ConversationHistory []Message `mapstructure:"conversation_history"`
	Stage               string    `mapstructure:"stage"`
	Ended               bool      `mapstructure:"ended"`
	SessionID           string    `mapstructure:"session_id"`
	SessionStart        time.Time `mapstructure:"session_start"`
	LastActive          time.Time `mapstructure:"last_active"`
}

// SessionFromDocument rebuilds a session from a stored document, allowing an
// interrupted interview to be inspected or resumed.
func SessionFromDocument(doc store.Document) (*Session, error) {
	var decoded sessionDocument

	cfg := &mapstructure.DecoderConfig{
		Result:           &decoded,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("building session decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any(doc)); err != nil {
		return nil, fmt.Errorf("decoding session document: %w", err)
	}

	session := &Session{
		ID:         decoded.SessionID,
		Stage:      Stage(decoded.Stage),
		Ended:      decoded.Ended,
		Profile:    decoded.Profile,
		StartedAt:  decoded.SessionStart,
		LastActive: decoded.LastActive,
	}
	if session.Stage == "" {
		session.Stage = StageAwaitingResume
	}
	for _, m := range decoded.ConversationHistory {
		session.Transcript.Append(m.Role, m.Content)
	}

	return session, nil
}
