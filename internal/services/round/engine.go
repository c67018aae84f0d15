// Package round implements the round lifecycle state machine: request
// content, collect one guess per player in roster order, judge all
// guesses, apply scores atomically, publish results.
package round

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/superawesomeme/La-Palabra-Negra/internal/dependencies/clock"
	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
	"github.com/superawesomeme/La-Palabra-Negra/internal/provider"
	"github.com/superawesomeme/La-Palabra-Negra/internal/services/topics"
	"github.com/superawesomeme/La-Palabra-Negra/internal/storage"
)

// defaultOpTimeout bounds a single provider operation (content fetch or
// the whole judgment batch)
const defaultOpTimeout = 60 * time.Second

// EventSink receives session events for the presentation layer
type EventSink interface {
	Publish(event model.Event)
}

// Engine drives the round state machine. All phase transitions for a
// session are serialized through a per-session lock; provider calls run
// asynchronously and re-enter the engine tagged with the generation
// they were issued for, so completions for superseded rounds are
// discarded.
type Engine struct {
	storage  storage.Storage
	provider provider.ContentProvider
	topics   *topics.Service
	clock    clock.Clock
	logger   *slog.Logger
	events   EventSink // may be nil

	opTimeout time.Duration
	spawn     func(fn func()) // async dispatch, replaced in tests

	mu    sync.Mutex
	locks map[model.SessionCode]*sync.Mutex
}

// New creates a round engine. events may be nil.
func New(
	storage storage.Storage,
	contentProvider provider.ContentProvider,
	topicsService *topics.Service,
	clock clock.Clock,
	logger *slog.Logger,
	events EventSink,
) *Engine {
	return &Engine{
		storage:   storage,
		provider:  contentProvider,
		topics:    topicsService,
		clock:     clock,
		logger:    logger,
		events:    events,
		opTimeout: defaultOpTimeout,
		spawn:     func(fn func()) { go fn() },
		locks:     make(map[model.SessionCode]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing transitions for a session
func (e *Engine) sessionLock(code model.SessionCode) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[code]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[code] = lock
	}
	return lock
}

// publish sends an event to the sink, if one is configured
func (e *Engine) publish(eventType model.EventType, code model.SessionCode, payload any) {
	if e.events == nil {
		return
	}
	e.events.Publish(model.Event{
		Type:      eventType,
		Timestamp: e.clock.Now(),
		Session:   code,
		Payload:   payload,
	})
}

// GetSession retrieves a session by code
func (e *Engine) GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	return e.storage.GetSession(ctx, code)
}

// StartRound begins a new round: resets round state, bumps the
// generation, and requests content asynchronously. Valid from the idle
// and round-complete phases; requires at least one enabled theme.
func (e *Engine) StartRound(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	lock := e.sessionLock(code)
	lock.Lock()

	session, err := e.storage.GetSession(ctx, code)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	if session.Phase != model.PhaseIdle && session.Phase != model.PhaseRoundComplete {
		lock.Unlock()
		return nil, model.ErrRoundNotStartable
	}

	prompts := e.topics.ExpandPrompts(session.EnabledThemes)
	if len(prompts) == 0 {
		lock.Unlock()
		return nil, model.ErrNoThemesEnabled
	}

	session.Round = &model.Round{}
	session.Phase = model.PhaseAwaitingContent
	session.Generation++
	session.UpdatedAt = e.clock.Now()
	gen := session.Generation

	if err := e.storage.SaveSession(ctx, session); err != nil {
		lock.Unlock()
		return nil, err
	}

	e.logger.Info("round started",
		slog.String("session", string(code)),
		slog.Int("generation", gen),
		slog.Int("player_count", len(session.Players)),
	)
	e.publish(model.EventRoundStarted, code, model.RoundStartedPayload{Generation: gen})
	lock.Unlock()

	e.spawn(func() { e.fetchContent(code, gen, prompts) })

	return session, nil
}

// fetchContent resolves the content request for a given generation
func (e *Engine) fetchContent(code model.SessionCode, gen int, prompts []string) {
	ctx, cancel := context.WithTimeout(context.Background(), e.opTimeout)
	defer cancel()

	content, provErr := e.provider.GenerateRound(ctx, prompts)

	lock := e.sessionLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.storage.GetSession(ctx, code)
	if err != nil {
		e.logger.Warn("content result dropped, session gone",
			slog.String("session", string(code)),
			slog.String("error", err.Error()),
		)
		return
	}

	// Stale-result guard: a newer round or a return to title supersedes
	// this request
	if session.Generation != gen || session.Phase != model.PhaseAwaitingContent {
		e.logger.Info("stale content result discarded",
			slog.String("session", string(code)),
			slog.Int("generation", gen),
		)
		return
	}

	if provErr != nil {
		session.Phase = model.PhaseFailed
		session.Round.Failure = model.FailureStageContent
		session.UpdatedAt = e.clock.Now()
		if err := e.storage.SaveSession(ctx, session); err != nil {
			e.logger.Error("failed to save failed session",
				slog.String("session", string(code)),
				slog.String("error", err.Error()),
			)
			return
		}
		e.logger.Warn("content request failed",
			slog.String("session", string(code)),
			slog.String("error", provErr.Error()),
		)
		e.publish(model.EventRoundFailed, code, model.RoundFailedPayload{Stage: model.FailureStageContent})
		return
	}

	session.Round.Content = content
	session.Round.TurnIdx = 0
	session.Phase = model.PhaseCollectingGuesses
	session.UpdatedAt = e.clock.Now()

	if err := e.storage.SaveSession(ctx, session); err != nil {
		e.logger.Error("failed to save session content",
			slog.String("session", string(code)),
			slog.String("error", err.Error()),
		)
		return
	}

	e.publish(model.EventContentReady, code, model.ContentReadyPayload{
		Category:  content.Category,
		FirstTurn: session.Players[0].ID,
	})
}

// SubmitGuess records the current turn player's guess and advances the
// turn. The last player's submission moves the round to judging and
// kicks off evaluation of all guesses.
func (e *Engine) SubmitGuess(ctx context.Context, code model.SessionCode, text string) (*model.Session, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.ErrEmptyGuess
	}

	lock := e.sessionLock(code)
	lock.Lock()

	session, err := e.storage.GetSession(ctx, code)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	if session.Phase != model.PhaseCollectingGuesses {
		lock.Unlock()
		return nil, model.ErrNotCollecting
	}

	player := session.CurrentTurnPlayer()
	if player == nil {
		lock.Unlock()
		return nil, model.ErrNotCollecting
	}

	session.Round.Guesses = append(session.Round.Guesses, model.GuessEntry{
		PlayerID: player.ID,
		Text:     text,
	})
	session.Round.TurnIdx++
	session.UpdatedAt = e.clock.Now()

	complete := session.Round.AllGuessesCollected(len(session.Players))
	var nextTurn model.PlayerID
	if complete {
		session.Phase = model.PhaseJudging
	} else {
		nextTurn = session.Players[session.Round.TurnIdx].ID
	}
	gen := session.Generation

	if err := e.storage.SaveSession(ctx, session); err != nil {
		lock.Unlock()
		return nil, err
	}

	e.publish(model.EventGuessSubmitted, code, model.GuessSubmittedPayload{
		PlayerID: player.ID,
		NextTurn: nextTurn,
	})
	if complete {
		e.publish(model.EventJudgingStarted, code, nil)
	}
	lock.Unlock()

	if complete {
		e.spawn(func() { e.judgeRound(code, gen) })
	}

	return session, nil
}

// judgeRound evaluates all collected guesses concurrently and, when
// every judgment succeeds, applies scores and completes the round.
// Any single failure fails the whole round with no score change.
func (e *Engine) judgeRound(code model.SessionCode, gen int) {
	ctx, cancel := context.WithTimeout(context.Background(), e.opTimeout)
	defer cancel()

	lock := e.sessionLock(code)

	lock.Lock()
	session, err := e.storage.GetSession(ctx, code)
	if err != nil || session.Generation != gen || session.Phase != model.PhaseJudging || session.Round.Content == nil {
		lock.Unlock()
		return
	}
	content := *session.Round.Content
	guesses := make([]model.GuessEntry, len(session.Round.Guesses))
	copy(guesses, session.Round.Guesses)
	lock.Unlock()

	// Judgments are independent of one another, so evaluate in parallel
	judgments := make([]*model.Judgment, len(guesses))
	errs := make([]error, len(guesses))
	var wg sync.WaitGroup
	for i, g := range guesses {
		wg.Add(1)
		go func(i int, g model.GuessEntry) {
			defer wg.Done()
			judgments[i], errs[i] = e.provider.EvaluateGuess(ctx, content.Category, content.ForbiddenWord, g.Text)
		}(i, g)
	}
	wg.Wait()

	var firstErr error
	for _, err := range errs {
		if err != nil {
			firstErr = err
			break
		}
	}

	lock.Lock()
	defer lock.Unlock()

	session, err = e.storage.GetSession(ctx, code)
	if err != nil {
		return
	}

	// Stale-result guard, and the exactly-once gate for scoring: the
	// judging phase is left as soon as results are applied
	if session.Generation != gen || session.Phase != model.PhaseJudging {
		e.logger.Info("stale judgment result discarded",
			slog.String("session", string(code)),
			slog.Int("generation", gen),
		)
		return
	}

	if firstErr != nil {
		session.Phase = model.PhaseFailed
		session.Round.Failure = model.FailureStageJudgment
		session.UpdatedAt = e.clock.Now()
		if err := e.storage.SaveSession(ctx, session); err != nil {
			e.logger.Error("failed to save failed session",
				slog.String("session", string(code)),
				slog.String("error", err.Error()),
			)
			return
		}
		e.logger.Warn("judgment request failed",
			slog.String("session", string(code)),
			slog.String("error", firstErr.Error()),
		)
		e.publish(model.EventRoundFailed, code, model.RoundFailedPayload{Stage: model.FailureStageJudgment})
		return
	}

	results := make([]model.RoundResult, len(guesses))
	scores := make(map[model.PlayerID]int, len(session.Players))
	for i, g := range guesses {
		points := judgments[i].Points()
		results[i] = model.RoundResult{
			PlayerID: g.PlayerID,
			Guess:    g.Text,
			Judgment: *judgments[i],
			Points:   points,
		}
		session.ApplyScoreDelta(g.PlayerID, points)
	}
	for _, p := range session.Players {
		scores[p.ID] = p.Score
	}

	session.Round.Results = results
	session.Round.Failure = ""
	session.Phase = model.PhaseRoundComplete
	session.UpdatedAt = e.clock.Now()

	if err := e.storage.SaveSession(ctx, session); err != nil {
		e.logger.Error("failed to save round results",
			slog.String("session", string(code)),
			slog.String("error", err.Error()),
		)
		return
	}

	e.logger.Info("round completed",
		slog.String("session", string(code)),
		slog.Int("generation", gen),
		slog.Int("result_count", len(results)),
	)
	e.publish(model.EventRoundCompleted, code, model.RoundCompletedPayload{
		ForbiddenWord: content.ForbiddenWord,
		Results:       results,
		Scores:        scores,
	})
}

// Retry recovers from the failed phase. A content failure re-issues the
// content request; a judgment failure re-submits the already-collected
// guesses without re-prompting for input. Scores are untouched.
func (e *Engine) Retry(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	lock := e.sessionLock(code)
	lock.Lock()

	session, err := e.storage.GetSession(ctx, code)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	if session.Phase != model.PhaseFailed || session.Round == nil {
		lock.Unlock()
		return nil, model.ErrRoundNotFailed
	}

	stage := session.Round.Failure
	session.Generation++
	gen := session.Generation
	session.UpdatedAt = e.clock.Now()

	var prompts []string
	if stage == model.FailureStageContent {
		prompts = e.topics.ExpandPrompts(session.EnabledThemes)
		if len(prompts) == 0 {
			lock.Unlock()
			return nil, model.ErrNoThemesEnabled
		}
		session.Round = &model.Round{}
		session.Phase = model.PhaseAwaitingContent
	} else {
		session.Round.Failure = ""
		session.Round.Results = nil
		session.Phase = model.PhaseJudging
	}

	if err := e.storage.SaveSession(ctx, session); err != nil {
		lock.Unlock()
		return nil, err
	}

	e.logger.Info("round retry",
		slog.String("session", string(code)),
		slog.String("stage", string(stage)),
		slog.Int("generation", gen),
	)
	if stage == model.FailureStageContent {
		e.publish(model.EventRoundStarted, code, model.RoundStartedPayload{Generation: gen})
	} else {
		e.publish(model.EventJudgingStarted, code, nil)
	}
	lock.Unlock()

	if stage == model.FailureStageContent {
		e.spawn(func() { e.fetchContent(code, gen, prompts) })
	} else {
		e.spawn(func() { e.judgeRound(code, gen) })
	}

	return session, nil
}

// ReturnToTitle abandons any in-progress round without scoring and
// returns the session to the idle phase. Scores are retained; the
// generation bump makes the engine ignore any in-flight results.
func (e *Engine) ReturnToTitle(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	lock := e.sessionLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	session.Round = nil
	session.Phase = model.PhaseIdle
	session.Generation++
	session.UpdatedAt = e.clock.Now()

	if err := e.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	e.publish(model.EventReturnedToTitle, code, nil)

	return session, nil
}
