package client

import (
	"fmt"

	"timeclock.app/timeclock/core"
)

type AttendanceEndpoint struct {
	transport *Transport
}

type shiftResponse struct {
	Message string               `json:"message"`
	Record  core.AttendanceEvent `json:"record"`
}

// StatusDTO is the wire shape of the current-shift endpoint.
type StatusDTO struct {
	Message   string                `json:"message"`
	Shift     *core.AttendanceEvent `json:"shift,omitempty"`
	LastShift *core.AttendanceEvent `json:"lastShift,omitempty"`
}

func (ep *AttendanceEndpoint) Start() (*core.AttendanceEvent, error) {
	var resp shiftResponse
	if err := ep.transport.Post("/attendance/start", nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp.Record, nil
}

func (ep *AttendanceEndpoint) End() (*core.AttendanceEvent, error) {
	var resp shiftResponse
	if err := ep.transport.Post("/attendance/end", nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp.Record, nil
}

func (ep *AttendanceEndpoint) Current() (*StatusDTO, error) {
	var resp StatusDTO
	if err := ep.transport.Get("/attendance/current", &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Summary fetches a single user's aggregation for an inclusive
// calendar date range (yyyy-MM-dd). Use SummaryAll for every user;
// without a userId the server responds with an array.
func (ep *AttendanceEndpoint) Summary(from, to, userID string) (*core.UserSummary, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is required, use SummaryAll for all users")
	}
	query := map[string]string{"from": from, "to": to, "userId": userID}

	var resp core.UserSummary
	if err := ep.transport.Get("/attendance/summary", &resp, query); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SummaryAll fetches the aggregation for every user with events in
// range.
func (ep *AttendanceEndpoint) SummaryAll(from, to string) ([]core.UserSummary, error) {
	query := map[string]string{"from": from, "to": to}

	var resp []core.UserSummary
	if err := ep.transport.Get("/attendance/summary", &resp, query); err != nil {
		return nil, err
	}
	return resp, nil
}

func (ep *AttendanceEndpoint) Edit(id string, kind core.EventKind, timestamp string) (*core.AttendanceEvent, error) {
	payload := map[string]string{"type": string(kind), "timestamp": timestamp}

	var resp shiftResponse
	if err := ep.transport.Put("/attendance/edit/"+id, payload, &resp, nil); err != nil {
		return nil, err
	}
	return &resp.Record, nil
}

func (ep *AttendanceEndpoint) Delete(id string) error {
	return ep.transport.Delete("/attendance/delete/"+id, nil, nil)
}
