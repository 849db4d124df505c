package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dukerupert/numlookup/internal/domain"
	"github.com/dukerupert/numlookup/internal/events"
	"github.com/dukerupert/numlookup/internal/geo"
	"github.com/dukerupert/numlookup/internal/history"
	"github.com/dukerupert/numlookup/internal/lookup"
	"github.com/dukerupert/numlookup/internal/mapsync"
	"github.com/dukerupert/numlookup/internal/presenter"
	"github.com/dukerupert/numlookup/internal/session"
	"github.com/dukerupert/numlookup/internal/telemetry"
	"github.com/google/uuid"
)

// ValidationService runs a phone validation end to end: input checks,
// lookup, presentation, map update, persistence and notification.
type ValidationService interface {
	// NewPage stores an empty map state under id for a freshly loaded page.
	// Every page load mints its own id so browser tabs never share a map.
	NewPage(ctx context.Context, id uuid.UUID) (*session.Session, error)

	// Validate validates req.Phone. Blank input returns ErrEmptyPhone and an
	// overlapping submit from the same page returns ErrValidationInProgress;
	// neither reaches the lookup API. Lookup failures are not errors: they
	// come back as an Outcome with an error view.
	Validate(ctx context.Context, req ValidateRequest) (*Outcome, error)

	// MapState returns the current map state of page id. Unknown pages
	// report a fresh, uninitialized map.
	MapState(ctx context.Context, id uuid.UUID) (mapsync.MapState, error)

	// Recent returns the newest history entries.
	Recent(ctx context.Context) ([]history.Entry, error)

	// ReplayCommands returns the commands that rebuild state on a fresh page.
	ReplayCommands(state mapsync.MapState) ([]mapsync.Command, error)
}

// ValidateRequest is one submission.
type ValidateRequest struct {
	// PageID identifies the loaded page whose map is updated. uuid.Nil runs a
	// stateless lookup with no map (the JSON API).
	PageID uuid.UUID

	Phone string

	// HasContainer is false when the page reported no map container.
	HasContainer bool
}

// Outcome is everything the page needs after a validation.
type Outcome struct {
	Phone     string
	Result    domain.LookupResult
	View      presenter.View
	MapUpdate presenter.MapUpdate

	// Commands are the map primitives applied by this validation only.
	Commands []mapsync.Command

	// Map is the page's map state after the validation.
	Map mapsync.MapState

	// Coordinate is set when the country has a known location.
	Coordinate *geo.Coordinate
}

// HistoryRecorder queues results for persistence.
type HistoryRecorder interface {
	Submit(phone string, result domain.LookupResult) bool
}

// ValidationConfig holds service settings.
type ValidationConfig struct {
	Tiles        mapsync.TileLayer
	HistoryLimit int
}

// Dependencies are the collaborators of the validation service.
// Recorder, History, Publisher and Metrics are optional.
type Dependencies struct {
	Lookup    lookup.Validator
	Sessions  session.Store
	Recorder  HistoryRecorder
	History   history.Store
	Publisher events.Publisher
	Metrics   *telemetry.LookupMetrics
	Logger    *slog.Logger
}

type validationService struct {
	lookup    lookup.Validator
	sessions  session.Store
	recorder  HistoryRecorder
	history   history.Store
	publisher events.Publisher
	metrics   *telemetry.LookupMetrics
	presenter *presenter.Presenter
	form      *formValidator
	config    ValidationConfig
	logger    *slog.Logger
}

// NewValidationService creates a validation service.
func NewValidationService(deps Dependencies, cfg ValidationConfig) (ValidationService, error) {
	if deps.Lookup == nil {
		return nil, errors.New("lookup validator is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	if deps.History == nil {
		deps.History = history.NoopStore{}
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NoopPublisher{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if cfg.Tiles.URL == "" {
		cfg.Tiles = mapsync.DefaultTileLayer()
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = history.DefaultLimit
	}

	return &validationService{
		lookup:    deps.Lookup,
		sessions:  deps.Sessions,
		recorder:  deps.Recorder,
		history:   deps.History,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		presenter: presenter.New(deps.Logger),
		form:      newFormValidator(),
		config:    cfg,
		logger:    deps.Logger,
	}, nil
}

func (s *validationService) NewPage(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	sess := session.New()
	sess.ID = id
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, domain.Unavailable(err, "validation.page", "Session storage is unavailable")
	}
	return sess, nil
}

func (s *validationService) Validate(ctx context.Context, req ValidateRequest) (*Outcome, error) {
	form := NewPhoneForm(req.Phone)
	if err := s.form.Check(form); err != nil {
		if errors.Is(err, ErrEmptyPhone) && s.metrics != nil {
			s.metrics.EmptySubmits.Inc()
		}
		return nil, err
	}

	if req.PageID == uuid.Nil {
		return s.validate(ctx, form.Phone, nil, req)
	}

	unlock, ok, err := s.sessions.TryLock(ctx, req.PageID)
	if err != nil {
		return nil, domain.Unavailable(err, opValidate, "Session storage is unavailable")
	}
	if !ok {
		if s.metrics != nil {
			s.metrics.Rejected.Inc()
		}
		s.logger.Info("rejected overlapping validation", "page_id", req.PageID)
		return nil, ErrValidationInProgress
	}
	defer unlock()

	sess, err := s.sessions.Get(ctx, req.PageID)
	if errors.Is(err, session.ErrNotFound) {
		sess = session.New()
		sess.ID = req.PageID
	} else if err != nil {
		return nil, domain.Unavailable(err, opValidate, "Session storage is unavailable")
	}

	out, err := s.validate(ctx, form.Phone, sess, req)
	if err != nil {
		return nil, err
	}

	sess.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error("failed to save map state", "error", err, "page_id", sess.ID)
	}
	return out, nil
}

func (s *validationService) validate(ctx context.Context, phone string, sess *session.Session, req ValidateRequest) (*Outcome, error) {
	start := time.Now()
	result := s.lookup.Validate(ctx, phone)
	elapsed := time.Since(start)

	out := &Outcome{Phone: phone, Result: result}

	var placer presenter.MarkerPlacer
	var renderer *mapsync.CommandRenderer
	if sess != nil {
		if !req.HasContainer && !sess.Map.Initialized {
			sess.Map.ContainerMissing = true
		}
		renderer = mapsync.NewCommandRenderer(req.HasContainer)
		placer = mapsync.New(&sess.Map, renderer, s.config.Tiles, s.logger)
	}

	out.View, out.MapUpdate = s.presenter.Show(result, placer)
	if renderer != nil {
		out.Commands = renderer.Commands()
	}
	if sess != nil {
		out.Map = sess.Map
	}
	if out.View.CountryCode != "" {
		if c, ok := geo.Lookup(out.View.CountryCode); ok {
			out.Coordinate = &c
		}
	}

	s.observe(ctx, out, elapsed)
	s.persist(out)
	s.publish(ctx, req.PageID, out)

	return out, nil
}

func (s *validationService) observe(ctx context.Context, out *Outcome, elapsed time.Duration) {
	outcome := domain.Outcome(out.Result)
	code := ""
	if f, ok := out.Result.(domain.LookupFailure); ok {
		code = f.Code
		if code == domain.ENETWORK || code == domain.ERESPONSE {
			telemetry.CaptureErrorFromContext(ctx, errors.New(f.Message), map[string]interface{}{
				"code":  code,
				"phone": out.Phone,
			})
		}
	}

	s.logger.Info("phone validated",
		"outcome", outcome,
		"code", code,
		"map_update", out.MapUpdate,
		"duration_ms", elapsed.Milliseconds(),
	)

	if s.metrics == nil {
		return
	}
	s.metrics.ObserveLookup(outcome, code, elapsed)
	s.metrics.MapUpdates.WithLabelValues(string(out.MapUpdate)).Inc()
}

func (s *validationService) persist(out *Outcome) {
	if s.recorder == nil {
		return
	}
	s.recorder.Submit(out.Phone, out.Result)
}

func (s *validationService) publish(ctx context.Context, pageID uuid.UUID, out *Outcome) {
	e := events.LookupCompleted{
		Phone:      out.Phone,
		Outcome:    domain.Outcome(out.Result),
		MapUpdate:  string(out.MapUpdate),
		OccurredAt: time.Now().UTC(),
	}
	if pageID != uuid.Nil {
		e.PageID = pageID.String()
	}
	if domain.HasSession(ctx) {
		e.SessionID = domain.SessionIDFromContext(ctx).String()
	}
	switch r := out.Result.(type) {
	case domain.LookupSuccess:
		e.CountryCode = r.CountryCode
		e.Valid = r.Valid
	case domain.LookupFailure:
		e.ErrorCode = r.Code
	}

	status := "ok"
	if err := s.publisher.PublishLookupCompleted(ctx, e); err != nil {
		status = "error"
		s.logger.Warn("failed to publish lookup event", "error", err)
	}
	if s.metrics != nil {
		s.metrics.EventsPublished.WithLabelValues(status).Inc()
	}
}

func (s *validationService) MapState(ctx context.Context, id uuid.UUID) (mapsync.MapState, error) {
	sess, err := s.sessions.Get(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return mapsync.MapState{}, nil
	}
	if err != nil {
		return mapsync.MapState{}, domain.Unavailable(err, "validation.state", "Session storage is unavailable")
	}
	return sess.Map, nil
}

func (s *validationService) Recent(ctx context.Context) ([]history.Entry, error) {
	entries, err := s.history.Recent(ctx, s.config.HistoryLimit)
	if err != nil {
		return nil, domain.Unavailable(err, "validation.history", "History is unavailable")
	}
	return entries, nil
}

func (s *validationService) ReplayCommands(state mapsync.MapState) ([]mapsync.Command, error) {
	r := mapsync.NewCommandRenderer(!state.ContainerMissing)
	if err := mapsync.Replay(state, r, s.config.Tiles); err != nil {
		return nil, err
	}
	return r.Commands(), nil
}
