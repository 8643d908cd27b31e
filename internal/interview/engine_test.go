package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/talentscout/internal/store"
)

type stubCompleter struct {
	responses []string
	err       error
	prompts   []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "ok", nil
	}
	response := s.responses[0]
	s.responses = s.responses[1:]
	return response, nil
}

type stubConverter struct {
	text string
	err  error
}

func (s *stubConverter) Convert(string, []byte) (string, error) {
	return s.text, s.err
}

type failingStore struct {
	saves   int
	updates int
}

func (f *failingStore) Save(context.Context, store.Document) (string, error) {
	f.saves++
	return "", errors.New("connection refused")
}

func (f *failingStore) Update(context.Context, string, store.Document) (bool, error) {
	f.updates++
	return false, errors.New("connection refused")
}

func (f *failingStore) Latest(context.Context) (store.Document, error) {
	return nil, store.ErrNotFound
}

func newTestEngine(completer *stubCompleter, converter *stubConverter, st store.Store) *Engine {
	return NewEngine(Deps{
		Completer: completer,
		Converter: converter,
		Store:     st,
	}, Options{})
}

func TestResumeUploadIngestsAnalysis(t *testing.T) {
	completer := &stubCompleter{responses: []string{sampleAnalysis, "Thanks for the resume, Jane!"}}
	converter := &stubConverter{text: "resume body"}
	engine := newTestEngine(completer, converter, store.NewMemory())

	ack, err := engine.HandleResumeUpload(context.Background(), "resume.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ack != "Thanks for the resume, Jane!" {
		t.Fatalf("unexpected acknowledgment: %q", ack)
	}

	session := engine.Session()
	if session.Stage != StageCollectingInfo {
		t.Fatalf("unexpected stage: %s", session.Stage)
	}
	if session.Profile.FullName != "Jane Doe" {
		t.Fatalf("unexpected full name: %q", session.Profile.FullName)
	}
	if session.Profile.Email != "" {
		t.Fatalf("sentinel email must stay absent, got %q", session.Profile.Email)
	}
	if session.Profile.ResumeText != "resume body" {
		t.Fatalf("resume text must be stored verbatim")
	}
	if session.Profile.ResumeAnalysis != sampleAnalysis {
		t.Fatalf("resume analysis must be stored verbatim")
	}
	if session.Transcript.Len() != 1 {
		t.Fatalf("acknowledgment must open the transcript, got %d entries", session.Transcript.Len())
	}
	if session.ID == "" {
		t.Fatalf("session must be persisted after ingestion")
	}
}

func TestResumeUploadRejectedAfterIngestion(t *testing.T) {
	completer := &stubCompleter{responses: []string{sampleAnalysis, "Welcome!"}}
	engine := newTestEngine(completer, &stubConverter{text: "resume body"}, nil)

	if _, err := engine.HandleResumeUpload(context.Background(), "resume.pdf", nil); err != nil {
		t.Fatalf("first upload failed: %v", err)
	}

	_, err := engine.HandleResumeUpload(context.Background(), "resume.pdf", nil)
	if !errors.Is(err, ErrResumeAlreadyIngested) {
		t.Fatalf("expected ErrResumeAlreadyIngested, got %v", err)
	}
}

func TestResumeIngestionIsIdempotent(t *testing.T) {
	completer := &stubCompleter{}
	engine := newTestEngine(completer, nil, nil)

	engine.applyAnalysis("resume body", sampleAnalysis)
	first := engine.Session().Profile

	engine.applyAnalysis("resume body", sampleAnalysis)
	second := engine.Session().Profile

	if first.FullName != second.FullName || first.Phone != second.Phone ||
		first.TechStack != second.TechStack || first.ResumeAnalysis != second.ResumeAnalysis {
		t.Fatalf("replaying identical analysis must not change the profile:\n%+v\n%+v", first, second)
	}
}

func TestResumeUploadWithUnreadableDocumentStaysInResumeStage(t *testing.T) {
	completer := &stubCompleter{}
	converter := &stubConverter{err: errors.New("malformed pdf")}
	engine := newTestEngine(completer, converter, nil)

	warning, err := engine.HandleResumeUpload(context.Background(), "broken.pdf", []byte("junk"))
	if err != nil {
		t.Fatalf("unreadable document must not fail the session: %v", err)
	}
	if !strings.Contains(warning, "couldn't read") {
		t.Fatalf("expected a visible warning, got %q", warning)
	}
	if engine.Session().Stage != StageAwaitingResume {
		t.Fatalf("session must stay in awaiting_resume, got %s", engine.Session().Stage)
	}
	if len(completer.prompts) != 0 {
		t.Fatalf("no completion call expected for unreadable documents")
	}
}

func TestResumeUploadAnalysisFailureKeepsResumeStage(t *testing.T) {
	completer := &stubCompleter{err: errors.New("model overloaded")}
	engine := newTestEngine(completer, &stubConverter{text: "resume body"}, nil)

	reply, err := engine.HandleResumeUpload(context.Background(), "resume.pdf", nil)
	if err != nil {
		t.Fatalf("analysis failure must not fail the session: %v", err)
	}
	if !strings.Contains(reply, "model overloaded") {
		t.Fatalf("apology must carry the cause, got %q", reply)
	}
	if engine.Session().Stage != StageAwaitingResume {
		t.Fatalf("session must stay in awaiting_resume for a retry")
	}
}

func TestHandleUserMessageAppendsBothTurns(t *testing.T) {
	completer := &stubCompleter{responses: []string{"What is your email?"}}
	engine := newTestEngine(completer, nil, store.NewMemory())

	reply, err := engine.HandleUserMessage(context.Background(), "Hello!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "What is your email?" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	messages := engine.Session().Transcript.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 transcript entries, got %d", len(messages))
	}
	if messages[0].Role != RoleUser || messages[0].Content != "Hello!" {
		t.Fatalf("unexpected user turn: %+v", messages[0])
	}
	if messages[1].Role != RoleAssistant {
		t.Fatalf("unexpected assistant turn: %+v", messages[1])
	}

	if len(completer.prompts) != 1 {
		t.Fatalf("expected one completion call, got %d", len(completer.prompts))
	}
	if !strings.Contains(completer.prompts[0], "Current user message: Hello!") {
		t.Fatalf("prompt must carry the new message:\n%s", completer.prompts[0])
	}
}

func TestExitMessageEndsSession(t *testing.T) {
	completer := &stubCompleter{}
	engine := newTestEngine(completer, nil, nil)
	engine.Session().Profile.FullName = "Jane Doe"

	farewell, err := engine.HandleUserMessage(context.Background(), "Thanks, bye!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !engine.Ended() {
		t.Fatalf("session must be ended")
	}
	if engine.Session().Stage != StageEnded {
		t.Fatalf("unexpected stage: %s", engine.Session().Stage)
	}
	if !strings.Contains(farewell, "Jane Doe") {
		t.Fatalf("farewell must summarize the candidate, got %q", farewell)
	}
	if !strings.Contains(farewell, "Not specified") {
		t.Fatalf("missing fields must fall back, got %q", farewell)
	}
	if !strings.Contains(farewell, "Local session") {
		t.Fatalf("without a store the farewell must report a local session, got %q", farewell)
	}
	if len(completer.prompts) != 0 {
		t.Fatalf("the exit path must not call the completion service")
	}

	// Further input is rejected without producing a new assistant turn.
	entries := engine.Session().Transcript.Len()
	if _, err := engine.HandleUserMessage(context.Background(), "one more thing"); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("expected ErrSessionEnded, got %v", err)
	}
	if engine.Session().Transcript.Len() != entries {
		t.Fatalf("ended session must not grow its transcript")
	}
}

func TestFarewellCarriesStoreAssignedID(t *testing.T) {
	engine := newTestEngine(&stubCompleter{}, nil, store.NewMemory())

	farewell, err := engine.HandleUserMessage(context.Background(), "bye")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id := engine.Session().ID
	if id == "" {
		t.Fatalf("expected a store-assigned session id")
	}
	if !strings.Contains(farewell, id) {
		t.Fatalf("farewell must carry the session id %q, got %q", id, farewell)
	}
}

func TestCompletionFailureSubstitutesApology(t *testing.T) {
	completer := &stubCompleter{err: errors.New("deadline exceeded")}
	engine := newTestEngine(completer, nil, nil)

	reply, err := engine.HandleUserMessage(context.Background(), "Hello!")
	if err != nil {
		t.Fatalf("completion failure must not fail the turn: %v", err)
	}
	if !strings.Contains(reply, "I apologize") || !strings.Contains(reply, "deadline exceeded") {
		t.Fatalf("unexpected apology: %q", reply)
	}

	// The turn still advances the transcript.
	if engine.Session().Transcript.Len() != 2 {
		t.Fatalf("expected 2 transcript entries, got %d", engine.Session().Transcript.Len())
	}
	if engine.Ended() {
		t.Fatalf("session must remain interactive")
	}
}

func TestPersistenceFailureIsSwallowed(t *testing.T) {
	completer := &stubCompleter{responses: []string{"Nice to meet you!"}}
	failing := &failingStore{}
	engine := newTestEngine(completer, nil, failing)

	reply, err := engine.HandleUserMessage(context.Background(), "Hi, I'm Jane")
	if err != nil {
		t.Fatalf("persistence failure must not fail the turn: %v", err)
	}
	if reply != "Nice to meet you!" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if failing.saves == 0 {
		t.Fatalf("expected a save attempt")
	}
	if engine.Session().ID != "" {
		t.Fatalf("failed save must leave the session local")
	}
	if engine.Session().Transcript.Len() != 2 {
		t.Fatalf("transcript must still contain the new turn")
	}
}

func TestStageBecomesTechnicalWhenProfileCompletes(t *testing.T) {
	completer := &stubCompleter{responses: []string{sampleAnalysis, "Welcome!", "First question?"}}
	engine := newTestEngine(completer, &stubConverter{text: "resume body"}, nil)

	if _, err := engine.HandleResumeUpload(context.Background(), "resume.pdf", nil); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	// Analysis left email and location absent; fill them in directly.
	engine.Session().Profile.Email = "jane@example.com"
	engine.Session().Profile.Location = "Berlin"

	if _, err := engine.HandleUserMessage(context.Background(), "I'm ready"); err != nil {
		t.Fatalf("turn failed: %v", err)
	}

	if engine.Session().Stage != StageTechnicalInterview {
		t.Fatalf("expected technical_interview stage, got %s", engine.Session().Stage)
	}
}
