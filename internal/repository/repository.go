// Package repository holds the in-memory event registry.
// All reads and writes go through a single lock guarding the whole event list.
package repository

import (
	"slices"
	"sync"

	"github.com/Shivanand-hulikatti/event-registry/internal/model"
)

// RegisterResult is the outcome of a registration attempt.
type RegisterResult int

const (
	Registered RegisterResult = iota
	AlreadyRegistered
	Full
	EventNotFound
)

// String returns the status string sent to clients.
func (r RegisterResult) String() string {
	switch r {
	case Registered:
		return "registered"
	case AlreadyRegistered:
		return "already_registered"
	case Full:
		return "full"
	case EventNotFound:
		return "event_not_found"
	default:
		return "unknown"
	}
}

// EventManager owns every Event. Names are not required to be unique;
// lookups act on the first match in insertion order.
type EventManager struct {
	mu     sync.Mutex
	events []*model.Event
}

// NewEventManager constructs an empty EventManager.
func NewEventManager() *EventManager {
	return &EventManager{}
}

// AddEvent appends a new event with no participants.
func (m *EventManager) AddEvent(name, description, date string, capacity int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, &model.Event{
		Name:        name,
		Description: description,
		Date:        date,
		Capacity:    capacity,
	})
}

// DeleteEvent removes every event called name. Participants keep the name in
// their Events list.
func (m *EventManager) DeleteEvent(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = slices.DeleteFunc(m.events, func(e *model.Event) bool {
		return e.Name == name
	})
}

// RegisterParticipant adds p to the first event called eventName.
// A roll number already present wins over a full event.
func (m *EventManager) RegisterParticipant(eventName string, p *model.Participant) RegisterResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	event := m.find(eventName)
	if event == nil {
		return EventNotFound
	}

	for _, existing := range event.Participants {
		if existing.RollNumber == p.RollNumber {
			return AlreadyRegistered
		}
	}

	if event.IsFull() {
		return Full
	}

	p.Events = append(p.Events, eventName)
	stored := *p
	stored.Events = slices.Clone(p.Events)
	event.Participants = append(event.Participants, stored)
	return Registered
}

// SearchParticipants lists the participants of the first event called
// eventName. ok is false when no such event exists.
func (m *EventManager) SearchParticipants(eventName string) (views []model.ParticipantView, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event := m.find(eventName)
	if event == nil {
		return nil, false
	}

	views = make([]model.ParticipantView, 0, len(event.Participants))
	for _, p := range event.Participants {
		views = append(views, model.ParticipantView{
			Name:       p.Name,
			RollNumber: p.RollNumber,
			Department: p.Department,
		})
	}
	return views, true
}

// UpdateEvent applies upd to the first event called name.
// Capacity may drop below the current participant count.
func (m *EventManager) UpdateEvent(name string, upd model.EventUpdate) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	event := m.find(name)
	if event == nil {
		return false
	}

	if upd.Description != "" {
		event.Description = upd.Description
	}
	if upd.Date != "" {
		event.Date = upd.Date
	}
	if upd.Capacity != nil {
		event.Capacity = *upd.Capacity
	}
	return true
}

// Events returns a snapshot of all events in insertion order.
func (m *EventManager) Events() []model.EventSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.EventSummary, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, model.EventSummary{
			Name:        e.Name,
			Description: e.Description,
			Date:        e.Date,
			Capacity:    e.Capacity,
			Count:       e.Count(),
		})
	}
	return out
}

// Len returns the number of events held.
func (m *EventManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// find must be called with mu held.
func (m *EventManager) find(name string) *model.Event {
	for _, e := range m.events {
		if e.Name == name {
			return e
		}
	}
	return nil
}
