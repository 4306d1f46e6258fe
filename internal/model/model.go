// Package model defines the core domain types for the event registry.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Event is a named activity with a bounded number of participants.
// Name doubles as the identifier; uniqueness is not enforced.
type Event struct {
	Name         string
	Description  string
	Date         string
	Capacity     int
	Participants []Participant
}

// Count returns the number of registered participants.
func (e *Event) Count() int {
	return len(e.Participants)
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return len(e.Participants) >= e.Capacity
}

// Participant is a registrant identified by roll number.
// Events lists the names of events joined, in registration order.
type Participant struct {
	Name       string
	RollNumber string
	Department string
	Events     []string
}

// ParticipantView is the public projection returned by a search.
type ParticipantView struct {
	Name       string `json:"name"`
	RollNumber string `json:"roll"`
	Department string `json:"dept"`
}

// EventSummary is one entry of the GET /events listing.
type EventSummary struct {
	Name        string `json:"name"`
	Description string `json:"desc"`
	Date        string `json:"date"`
	Capacity    int    `json:"capacity"`
	Count       int    `json:"count"`
}

// EventUpdate carries the optional fields of an update. Empty strings and a
// nil Capacity leave the corresponding field unchanged.
type EventUpdate struct {
	Description string
	Date        string
	Capacity    *int
}

// Capacity is a participant limit as sent by clients: either a JSON number
// or a string holding an integer.
type Capacity int

// UnmarshalJSON accepts numbers (truncated toward zero) and numeric strings.
// Both forms share the range of int.
func (c *Capacity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("capacity: empty value")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("capacity: %w", err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("capacity: %q is not an integer", s)
		}
		*c = Capacity(n)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("capacity: %s is not a number", data)
	}
	if n, err := strconv.Atoi(num.String()); err == nil {
		*c = Capacity(n)
		return nil
	}
	f, err := num.Float64()
	if err != nil || f < math.MinInt || f >= math.MaxInt {
		return fmt.Errorf("capacity: %s out of range", data)
	}
	*c = Capacity(int(f))
	return nil
}

// Int returns the capacity as a plain int.
func (c Capacity) Int() int {
	return int(c)
}

// AddEventRequest is the payload for POST /add_event.
type AddEventRequest struct {
	Name        *string   `json:"name" validate:"required"`
	Description *string   `json:"desc" validate:"required"`
	Date        *string   `json:"date" validate:"required"`
	Capacity    *Capacity `json:"capacity" validate:"required"`
}

// DeleteEventRequest is the payload for POST /delete_event.
type DeleteEventRequest struct {
	Name *string `json:"name" validate:"required"`
}

// RegisterRequest is the payload for POST /register.
type RegisterRequest struct {
	Event      *string `json:"event" validate:"required"`
	Name       *string `json:"name" validate:"required"`
	RollNumber *string `json:"roll" validate:"required"`
	Department *string `json:"dept" validate:"required"`
}

// SearchRequest is the payload for POST /search.
type SearchRequest struct {
	Event *string `json:"event" validate:"required"`
}

// UpdateEventRequest is the payload for POST /update_event.
// Only Name is required.
type UpdateEventRequest struct {
	Name        *string   `json:"name" validate:"required"`
	Description *string   `json:"desc"`
	Date        *string   `json:"date"`
	Capacity    *Capacity `json:"capacity"`
}

// EventsResponse is the body of GET /events.
type EventsResponse struct {
	Events []EventSummary `json:"events"`
}

// StatusResponse is the body of every POST outcome.
type StatusResponse struct {
	Status string `json:"status"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Status       string            `json:"status"`
	Participants []ParticipantView `json:"participants"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
