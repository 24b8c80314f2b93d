package calibration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/synergy-credit/scorenorm/internal/logging"
	"github.com/synergy-credit/scorenorm/internal/normalize"
	syncx "github.com/synergy-credit/scorenorm/internal/sync"
)

var ErrInvalidSelection = errors.New("invalid country pair")

// EventAppender records audit events; *syncx.EventRepo satisfies it.
type EventAppender interface {
	Append(ctx context.Context, e syncx.Event) error
}

type Options struct {
	Defaults Selection
	Strict   bool
	Events   EventAppender
	Logger   *slog.Logger
	Now      func() time.Time
}

// Service resolves and maintains the anchor sets behind each mapping
// context. Defaults are fixed at construction.
type Service struct {
	store    Store
	events   EventAppender
	defaults Selection
	strict   bool
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(store Store, opts Options) *Service {
	s := &Service{
		store:    store,
		events:   opts.Events,
		defaults: canonical(opts.Defaults),
		strict:   opts.Strict,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) Defaults() Selection { return s.defaults }

// Complete fills empty codes from the defaults and canonicalizes them.
func (s *Service) Complete(sel Selection) (Selection, error) {
	sel = canonical(sel)
	if sel.Origin == "" {
		sel.Origin = s.defaults.Origin
	}
	if sel.Dest == "" {
		sel.Dest = s.defaults.Dest
	}
	if !validCode(sel.Origin) || !validCode(sel.Dest) {
		return Selection{}, fmt.Errorf("%w: %q -> %q", ErrInvalidSelection, sel.Origin, sel.Dest)
	}
	return sel, nil
}

// Resolve returns the stored anchor set for the pair, or the built-in
// sample curve when none is stored or the store cannot be read.
func (s *Service) Resolve(ctx context.Context, sel Selection) (Resolved, error) {
	sel, err := s.Complete(sel)
	if err != nil {
		return Resolved{}, err
	}
	rec, err := s.store.Get(ctx, sel)
	switch {
	case err == nil:
		return Resolved{Selection: sel, Payload: rec.Payload(), Source: SourceStored}, nil
	case errors.Is(err, ErrNotFound):
	default:
		if ctx.Err() != nil {
			return Resolved{}, ctx.Err()
		}
		logging.LogError(s.log(ctx), "anchor store read failed, serving sample", err,
			slog.String("pair", sel.Key()))
	}
	return Resolved{
		Selection: sel,
		Payload:   normalize.SamplePayload(sel.Origin, sel.Dest, s.now()),
		Source:    SourceSample,
	}, nil
}

func (s *Service) Convert(ctx context.Context, sel Selection, score float64) (Conversion, error) {
	res, err := s.Resolve(ctx, sel)
	if err != nil {
		return Conversion{}, err
	}
	return res.Convert(score), nil
}

// ConvertMany maps every score against a single resolution of the pair.
func (s *Service) ConvertMany(ctx context.Context, sel Selection, scores []float64) ([]Conversion, error) {
	res, err := s.Resolve(ctx, sel)
	if err != nil {
		return nil, err
	}
	out := make([]Conversion, len(scores))
	for i, sc := range scores {
		out[i] = res.Convert(sc)
	}
	return out, nil
}

// Convert maps one score with the resolved anchor set.
func (res Resolved) Convert(score float64) Conversion {
	x := normalize.ClampScore(score)
	y := res.Payload.Set.Map(x)
	return Conversion{
		Origin:         res.Selection.Origin,
		Dest:           res.Selection.Dest,
		Score:          x,
		OriginBand:     normalize.BandName(normalize.RoundHalfUp(x)),
		Normalized:     y,
		NormalizedBand: normalize.BandName(y),
		Source:         res.Source,
	}
}

// Save stores p as the anchor set for sel, replacing any previous one.
func (s *Service) Save(ctx context.Context, sel Selection, p normalize.Payload, actor string) (Record, error) {
	return s.save(ctx, sel, p, actor, syncx.TypeAnchorSetUpdated)
}

// Import is Save with an import audit event; key is the archived raw document.
func (s *Service) Import(ctx context.Context, sel Selection, p normalize.Payload, actor, key string) (Record, error) {
	return s.save(ctx, sel, p, actor, syncx.TypeAnchorSetImported, slog.String("document", key))
}

func (s *Service) save(ctx context.Context, sel Selection, p normalize.Payload, actor, evType string, extra ...slog.Attr) (Record, error) {
	sel, err := s.Complete(sel)
	if err != nil {
		return Record{}, err
	}
	anchors := p.Set.Anchors()
	if p.Set.Len() == 0 {
		anchors = normalize.IdentityAnchorSet().Anchors()
	}
	if s.strict {
		// the document order matters: Decode sorts Set, Input keeps what was sent
		if err := normalize.Validate(p.Input); err != nil {
			return Record{}, err
		}
		if err := normalize.Validate(anchors); err != nil {
			return Record{}, err
		}
	}
	method := p.Method
	if method == "" {
		method = normalize.DefaultMethod
	}
	rec := Record{
		Origin:    sel.Origin,
		Dest:      sel.Dest,
		Anchors:   anchors,
		Method:    method,
		UpdatedAt: s.now().UTC().Truncate(time.Second),
		UpdatedBy: actor,
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("store anchors %s: %w", sel.Key(), err)
	}

	data := map[string]any{"actor": actor, "anchors": len(anchors), "method": method}
	for _, a := range extra {
		data[a.Key] = a.Value.String()
	}
	s.audit(ctx, evType, sel, data)

	attrs := append([]slog.Attr{slog.String("pair", sel.Key()), slog.String("actor", actor), slog.Int("anchors", len(anchors))}, extra...)
	logging.LogOperation(s.log(ctx), "anchor_set_saved", attrs...)
	return rec, nil
}

func (s *Service) Remove(ctx context.Context, sel Selection, actor string) error {
	sel, err := s.Complete(sel)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sel); err != nil {
		return err
	}
	s.audit(ctx, syncx.TypeAnchorSetDeleted, sel, map[string]any{"actor": actor})
	return nil
}

func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.store.List(ctx)
}

// audit failures are logged; the write they describe has already happened.
func (s *Service) audit(ctx context.Context, typ string, sel Selection, data map[string]any) {
	if s.events == nil {
		return
	}
	b, err := json.Marshal(data)
	if err == nil {
		err = s.events.Append(ctx, syncx.Event{Type: typ, Key: sel.Key(), DataJSON: string(b)})
	}
	if err != nil {
		logging.LogError(s.log(ctx), "audit append failed", err,
			slog.String("type", typ), slog.String("pair", sel.Key()))
	}
}

// log prefers the request logger so entries carry the request id.
func (s *Service) log(ctx context.Context) *slog.Logger {
	if l, ok := logging.Lookup(ctx); ok {
		return l
	}
	return s.logger
}

func canonical(sel Selection) Selection {
	return Selection{Origin: normalize.NormalizeCode(sel.Origin), Dest: normalize.NormalizeCode(sel.Dest)}
}

func validCode(c string) bool {
	return len(c) == 2 && c[0] >= 'A' && c[0] <= 'Z' && c[1] >= 'A' && c[1] <= 'Z'
}
