package interview

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/store"

	"go.uber.org/zap"
)

var (
	// ErrSessionEnded is returned for any input after the session reached
	// the terminal stage.
	ErrSessionEnded = errors.New("session has ended")
	// ErrResumeAlreadyIngested is returned for a second upload attempt once
	// the resume stage has been exited.
	ErrResumeAlreadyIngested = errors.New("a resume has already been ingested for this session")
)

const emptyDocumentWarning = "I couldn't read any text from that document. " +
	"Please check the file and try uploading it again."

// DocumentConverter turns uploaded document bytes into plain text.
// Implementations degrade to empty text instead of failing hard.
type DocumentConverter interface {
	Convert(filename string, data []byte) (string, error)
}

// Deps aggregates the engine's collaborators. Store and Converter may be
// nil: without a store the session stays local, without a converter uploads
// are refused with a warning.
type Deps struct {
	Completer ai.Completer
	Converter DocumentConverter
	Store     store.Store
	Logger    *zap.Logger
}

// Options carries the injectable configuration surface. Zero values fall
// back to the defaults of the original assistant.
type Options struct {
	ExitKeywords     []string
	AbsenceSentinels []string
	Labels           []Label
}

// Engine is the conversation state machine. It owns one session for the
// lifetime of an interview and processes turns strictly sequentially; it is
// not safe for concurrent use, but independent engines share no state.
type Engine struct {
	completer ai.Completer
	converter DocumentConverter
	store     store.Store
	logger    *zap.Logger

	extractor *Extractor
	exits     *ExitDetector
	sentinels *Sentinels

	session *Session
}

func NewEngine(deps Deps, opts Options) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sentinelValues := opts.AbsenceSentinels
	if len(sentinelValues) == 0 {
		sentinelValues = DefaultSentinels()
	}
	sentinels := NewSentinels(sentinelValues)

	return &Engine{
		completer: deps.Completer,
		converter: deps.Converter,
		store:     deps.Store,
		logger:    logger,
		extractor: NewExtractor(opts.Labels, sentinels),
		exits:     NewExitDetector(opts.ExitKeywords),
		sentinels: sentinels,
		session:   NewSession(),
	}
}

// Session exposes the engine's session for inspection by the caller.
func (e *Engine) Session() *Session {
	return e.session
}

// Ended reports whether the session reached the terminal stage.
func (e *Engine) Ended() bool {
	return e.session.Ended
}

// HandleResumeUpload ingests an uploaded resume: extracts its text, asks the
// completion service for a structured analysis, merges the recognized fields
// into the profile and returns the acknowledgment turn. Only the first
// upload is accepted; re-ingestion mid-interview is rejected.
func (e *Engine) HandleResumeUpload(ctx context.Context, filename string, data []byte) (string, error) {
	if e.session.Ended {
		return "", ErrSessionEnded
	}
	if e.session.Stage != StageAwaitingResume {
		return "", ErrResumeAlreadyIngested
	}

	text := e.documentText(filename, data)
	if strings.TrimSpace(text) == "" {
		// Visible warning; the session stays in awaiting_resume so the
		// candidate can retry with a readable file.
		return emptyDocumentWarning, nil
	}

	analysis, err := e.completer.Complete(ctx, buildAnalysisPrompt(text))
	if err != nil {
		e.logger.Warn("resume analysis failed", zap.Error(err))
		return apologyMessage(err), nil
	}

	e.applyAnalysis(text, analysis)

	ack, err := e.completer.Complete(ctx, buildAckPrompt(analysis))
	if err != nil {
		e.logger.Warn("acknowledgment turn failed", zap.Error(err))
		ack = apologyMessage(err)
	}

	// Idempotent: the acknowledgment opens the transcript exactly once.
	if e.session.Transcript.Len() == 0 {
		e.session.Transcript.Append(RoleAssistant, ack)
	}

	e.session.Stage = StageCollectingInfo
	e.touch()
	e.persist(ctx)

	return ack, nil
}

// HandleUserMessage processes one user turn: exit detection, prompt
// assembly, completion call and best-effort persistence. Completion and
// persistence failures never terminate the session.
func (e *Engine) HandleUserMessage(ctx context.Context, message string) (string, error) {
	if e.session.Ended {
		return "", ErrSessionEnded
	}

	e.session.Transcript.Append(RoleUser, message)
	e.touch()

	if e.exits.IsExit(message) {
		return e.finish(ctx), nil
	}

	reply, err := e.completer.Complete(ctx, buildTurnPrompt(e.session, message))
	if err != nil {
		e.logger.Warn("completion call failed, substituting apology", zap.Error(err))
		reply = apologyMessage(err)
	}

	e.session.Transcript.Append(RoleAssistant, reply)

	if e.session.Stage == StageCollectingInfo && e.session.Profile.Complete() {
		e.session.Stage = StageTechnicalInterview
	}

	e.persist(ctx)

	return reply, nil
}

// finish transitions to the terminal stage and synthesizes the farewell.
// The session is persisted before composing the farewell so a store-assigned
// identifier can be reported to the candidate.
func (e *Engine) finish(ctx context.Context) string {
	e.session.Stage = StageEnded
	e.session.Ended = true
	e.persist(ctx)

	farewell := farewellMessage(&e.session.Profile, e.session.ID)
	e.session.Transcript.Append(RoleAssistant, farewell)
	e.persist(ctx)

	e.logger.Info("session ended",
		zap.String("session_id", orFallback(e.session.ID, "local")),
		zap.Int("transcript_entries", e.session.Transcript.Len()),
	)

	return farewell
}

// applyAnalysis merges extracted fields and stores the raw text and analysis
// verbatim. Replaying identical analysis text leaves the profile unchanged.
func (e *Engine) applyAnalysis(resumeText, analysis string) {
	fields := e.extractor.ExtractAll(analysis)
	e.session.Profile.MergeExtracted(fields, e.sentinels)
	e.session.Profile.ResumeText = resumeText
	e.session.Profile.ResumeAnalysis = analysis

	e.logger.Debug("resume analysis applied",
		zap.Int("extracted_fields", len(fields)),
		zap.Bool("profile_complete", e.session.Profile.Complete()),
	)
}

func (e *Engine) documentText(filename string, data []byte) string {
	if e.converter == nil {
		return ""
	}

	text, err := e.converter.Convert(filename, data)
	if err != nil {
		e.logger.Warn("document text extraction failed",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return ""
	}

	return text
}

// persist writes the session to the store. Failures are logged and
// swallowed: persistence is best-effort and must never block the
// conversation.
func (e *Engine) persist(ctx context.Context) {
	if e.store == nil {
		return
	}

	doc := e.session.Document()

	if e.session.ID == "" {
		id, err := e.store.Save(ctx, doc)
		if err != nil {
			e.logger.Warn("session autosave failed", zap.Error(err))
			return
		}
		e.session.ID = id
		return
	}

	if _, err := e.store.Update(ctx, e.session.ID, doc); err != nil {
		e.logger.Warn("session autosave failed",
			zap.String("session_id", e.session.ID),
			zap.Error(err),
		)
	}
}

func (e *Engine) touch() {
	e.session.LastActive = time.Now().UTC()
}
