package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Request is one translation call. Reference, when set, triggers advisory
// accuracy scoring. RoomID attributes the call in the log; roomless calls
// land in a synthetic daily bucket so adhoc usage stays auditable.
type Request struct {
	Text       string
	SourceLang string
	TargetLang string
	Reference  string
	RoomID     string
}

// Result carries the translated text and the end-to-end latency.
type Result struct {
	Text     string
	Duration time.Duration
	Accuracy *float64
}

// Orchestrator validates input, gates on backend health, issues a single
// bounded-timeout call and records every outcome. No retries: translation
// is a synchronous, user-facing operation inside a live call, so the only
// resilience is the gate in front of it.
type Orchestrator struct {
	Backend  Backend
	Gate     *Gate
	Logs     *LogStore
	MaxChars int
	Timeout  time.Duration
}

func NewOrchestrator(backend Backend, gate *Gate, logs *LogStore, maxChars int, timeout time.Duration) *Orchestrator {
	if maxChars <= 0 {
		maxChars = 5000
	}
	return &Orchestrator{
		Backend:  backend,
		Gate:     gate,
		Logs:     logs,
		MaxChars: maxChars,
		Timeout:  timeout,
	}
}

func (o *Orchestrator) Translate(ctx context.Context, req Request) (Result, error) {
	src := BaseLang(req.SourceLang)
	dst := BaseLang(req.TargetLang)

	if err := o.validate(req.Text, src, dst); err != nil {
		o.record(req, src, dst, Result{}, err)
		return Result{}, err
	}
	text := strings.TrimSpace(req.Text)

	if o.Gate != nil && !o.Gate.Allow(ctx) {
		o.record(req, src, dst, Result{}, ErrServiceUnavailable)
		return Result{}, ErrServiceUnavailable
	}

	cctx, cancel := withTimeout(ctx, o.Timeout)
	defer cancel()

	start := time.Now()
	out, sentences, err := o.Backend.Translate(cctx, text, src, dst)
	res := Result{Text: out, Duration: time.Since(start)}
	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			err = ErrTimeout
		}
		o.record(req, src, dst, res, err)
		return Result{}, err
	}

	if req.Reference != "" {
		score := WordOverlap(req.Reference, out)
		res.Accuracy = &score
	}

	log.Info().
		Str("module", "translate").
		Str("source", src).
		Str("target", dst).
		Int("sentences", sentences).
		Dur("duration", res.Duration).
		Msg("translated")
	o.record(req, src, dst, res, nil)
	return res, nil
}

func (o *Orchestrator) validate(text, src, dst string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidInput)
	}
	if len([]rune(trimmed)) > o.MaxChars {
		return fmt.Errorf("%w: text exceeds %d characters", ErrInvalidInput, o.MaxChars)
	}
	if src == "" || dst == "" {
		return fmt.Errorf("%w: missing language code", ErrInvalidInput)
	}
	return nil
}

func (o *Orchestrator) record(req Request, src, dst string, res Result, err error) {
	if o.Logs == nil {
		return
	}
	e := LogEntry{
		Timestamp:  time.Now().UTC(),
		RoomID:     req.RoomID,
		SourceLang: src,
		TargetLang: dst,
		Input:      req.Text,
		Output:     res.Text,
		DurationMs: res.Duration.Milliseconds(),
		Status:     "ok",
		Accuracy:   res.Accuracy,
	}
	if e.RoomID == "" {
		e.RoomID = "adhoc-" + time.Now().UTC().Format("2006-01-02")
	}
	if err != nil {
		e.Status = classify(err)
		e.Error = err.Error()
		e.Output = ""
		log.Error().
			Err(err).
			Str("module", "translate").
			Str("source", src).
			Str("target", dst).
			Str("room", e.RoomID).
			Msg("translation failed")
	}
	o.Logs.Append(e)
}

func classify(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid-input"
	case errors.Is(err, ErrServiceUnavailable):
		return "service-unavailable"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrBadRequest):
		return "bad-request"
	default:
		return "unavailable"
	}
}
