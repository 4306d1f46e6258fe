// Package service implements validation and orchestration between HTTP
// handlers and the in-memory registry.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Shivanand-hulikatti/event-registry/internal/journal"
	"github.com/Shivanand-hulikatti/event-registry/internal/metrics"
	"github.com/Shivanand-hulikatti/event-registry/internal/model"
	"github.com/Shivanand-hulikatti/event-registry/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ErrInvalidRequest is returned when a payload is missing required fields.
var ErrInvalidRequest = errors.New("invalid request")

// EventService orchestrates event-related operations.
type EventService struct {
	events    *repository.EventManager
	journal   journal.Recorder
	logger    zerolog.Logger
	validator *validator.Validate
}

// NewEventService constructs an EventService with its dependencies.
// A nil recorder disables journaling.
func NewEventService(events *repository.EventManager, rec journal.Recorder, logger zerolog.Logger) *EventService {
	if rec == nil {
		rec = journal.Nop{}
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &EventService{
		events:    events,
		journal:   rec,
		logger:    logger.With().Str("component", "events").Logger(),
		validator: v,
	}
}

// ListEvents returns all events in insertion order.
func (s *EventService) ListEvents(ctx context.Context) []model.EventSummary {
	return s.events.Events()
}

// AddEvent validates presence of every field and appends the event.
func (s *EventService) AddEvent(ctx context.Context, req model.AddEventRequest) error {
	if err := s.validate(req); err != nil {
		return err
	}

	s.events.AddEvent(*req.Name, *req.Description, *req.Date, req.Capacity.Int())
	metrics.Events.Set(float64(s.events.Len()))
	s.logger.Info().
		Str("event", *req.Name).
		Int("capacity", req.Capacity.Int()).
		Msg("event added")
	s.record(ctx, journal.OpAddEvent, *req.Name, "success")
	return nil
}

// DeleteEvent removes every event with the given name. Deleting an unknown
// name is not an error.
func (s *EventService) DeleteEvent(ctx context.Context, req model.DeleteEventRequest) error {
	if err := s.validate(req); err != nil {
		return err
	}

	s.events.DeleteEvent(*req.Name)
	metrics.Events.Set(float64(s.events.Len()))
	s.logger.Info().Str("event", *req.Name).Msg("event deleted")
	s.record(ctx, journal.OpDeleteEvent, *req.Name, "deleted")
	return nil
}

// Register creates a fresh participant and registers it for req.Event.
func (s *EventService) Register(ctx context.Context, req model.RegisterRequest) (repository.RegisterResult, error) {
	if err := s.validate(req); err != nil {
		return repository.EventNotFound, err
	}

	p := &model.Participant{
		Name:       *req.Name,
		RollNumber: *req.RollNumber,
		Department: *req.Department,
	}
	result := s.events.RegisterParticipant(*req.Event, p)

	metrics.Registrations.WithLabelValues(result.String()).Inc()
	s.logger.Debug().
		Str("event", *req.Event).
		Str("roll", p.RollNumber).
		Str("outcome", result.String()).
		Msg("registration attempt")
	s.record(ctx, journal.OpRegister, *req.Event, result.String())
	return result, nil
}

// Search lists the participants of req.Event. found is false when the
// event does not exist.
func (s *EventService) Search(ctx context.Context, req model.SearchRequest) (participants []model.ParticipantView, found bool, err error) {
	if err := s.validate(req); err != nil {
		return nil, false, err
	}

	participants, found = s.events.SearchParticipants(*req.Event)
	return participants, found, nil
}

// UpdateEvent applies the provided fields to the named event. updated is
// false when no event matches.
func (s *EventService) UpdateEvent(ctx context.Context, req model.UpdateEventRequest) (updated bool, err error) {
	if err := s.validate(req); err != nil {
		return false, err
	}

	var upd model.EventUpdate
	if req.Description != nil {
		upd.Description = *req.Description
	}
	if req.Date != nil {
		upd.Date = *req.Date
	}
	if req.Capacity != nil {
		c := req.Capacity.Int()
		upd.Capacity = &c
	}

	updated = s.events.UpdateEvent(*req.Name, upd)
	outcome := "updated"
	if !updated {
		outcome = "event_not_found"
	}
	s.logger.Info().Str("event", *req.Name).Str("outcome", outcome).Msg("event update")
	s.record(ctx, journal.OpUpdateEvent, *req.Name, outcome)
	return updated, nil
}

func (s *EventService) validate(req any) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

// record appends to the journal. Failures are logged and counted but never
// change the outcome of the operation.
func (s *EventService) record(ctx context.Context, op, eventName, outcome string) {
	metrics.Operations.WithLabelValues(op).Inc()

	err := s.journal.Record(ctx, journal.Entry{
		Operation: op,
		EventName: eventName,
		Outcome:   outcome,
	})
	if err != nil {
		metrics.JournalErrors.Inc()
		s.logger.Warn().Err(err).Str("operation", op).Msg("journal write failed")
	}
}
