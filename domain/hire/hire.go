// Package hire holds the hire request aggregate and its lifecycle.
//
// The lifecycle is a closed table: any (status, action) pair missing from
// transitions is rejected. Role checks run before the table lookup so that a
// stranger never learns the current status of a request.
package hire

import (
	"fmt"
	"market-lab/errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCompleted Status = "completed"
)

func (s Status) IsTerminal() bool {
	return s == StatusDeclined || s == StatusCompleted
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(s)); st {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("unknown hire status %q", s)
	}
}

type Action string

const (
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionComplete Action = "complete"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(s)); a {
	case ActionAccept, ActionDecline, ActionComplete:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", errors.ErrInvalidTransition, s)
	}
}

// Role is the part an actor plays on a given request.
type Role int

const (
	RoleNone Role = iota
	RoleClient
	RoleDesigner
)

type edge struct {
	from   Status
	action Action
}

type rule struct {
	to      Status
	allowed []Role
}

var transitions = map[edge]rule{
	{StatusPending, ActionAccept}:    {to: StatusAccepted, allowed: []Role{RoleDesigner}},
	{StatusPending, ActionDecline}:   {to: StatusDeclined, allowed: []Role{RoleDesigner}},
	{StatusAccepted, ActionComplete}: {to: StatusCompleted, allowed: []Role{RoleClient, RoleDesigner}},
}

// actionRoles lists who may ever issue an action, independent of status.
var actionRoles = map[Action][]Role{
	ActionAccept:   {RoleDesigner},
	ActionDecline:  {RoleDesigner},
	ActionComplete: {RoleClient, RoleDesigner},
}

// Requirements is the project brief attached by the client. Every field is optional.
type Requirements struct {
	Title       string
	Description string
	Budget      float64 `validate:"gte=0"`
	Timeline    string
	Attachments []string `validate:"omitempty,dive,required"`
}

type HireRequest struct {
	ID           uuid.UUID
	ClientID     string
	DesignerID   string
	Requirements Requirements
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateCommand is what a client submits to open a request.
type CreateCommand struct {
	ClientID     string `validate:"required"`
	DesignerID   string `validate:"required,nefield=ClientID"`
	Requirements Requirements
}

// New builds a pending request. Tag validation of the requirements is the caller's job.
func New(clientID, designerID string, requirements Requirements, at time.Time) (HireRequest, error) {
	clientID, designerID = strings.TrimSpace(clientID), strings.TrimSpace(designerID)
	switch {
	case clientID == "" || designerID == "":
		return HireRequest{}, fmt.Errorf("%w: client and designer are required", errors.ErrInvalidRequest)
	case clientID == designerID:
		return HireRequest{}, fmt.Errorf("%w: client cannot hire themselves", errors.ErrInvalidRequest)
	case requirements.Budget < 0:
		return HireRequest{}, fmt.Errorf("%w: budget must not be negative", errors.ErrInvalidRequest)
	}
	return HireRequest{
		ID:           uuid.New(),
		ClientID:     clientID,
		DesignerID:   designerID,
		Requirements: requirements,
		Status:       StatusPending,
		CreatedAt:    at,
		UpdatedAt:    at,
	}, nil
}

func (h HireRequest) RoleOf(userID string) Role {
	switch userID {
	case h.DesignerID:
		return RoleDesigner
	case h.ClientID:
		return RoleClient
	default:
		return RoleNone
	}
}

func (h HireRequest) IsParticipant(userID string) bool {
	return h.RoleOf(userID) != RoleNone
}

// Next returns the status reached when actorID applies action, without mutating h.
func (h HireRequest) Next(actorID string, action Action) (Status, error) {
	role := h.RoleOf(actorID)
	if role == RoleNone {
		return "", fmt.Errorf("%w: %s is not part of hire request %s", errors.ErrForbidden, actorID, h.ID)
	}
	roles, known := actionRoles[action]
	if !known {
		return "", fmt.Errorf("%w: unknown action %q", errors.ErrInvalidTransition, action)
	}
	if !hasRole(roles, role) {
		return "", fmt.Errorf("%w: %s cannot %s", errors.ErrForbidden, actorID, action)
	}
	r, ok := transitions[edge{from: h.Status, action: action}]
	if !ok || !hasRole(r.allowed, role) {
		return "", fmt.Errorf("%w: cannot %s a %s request", errors.ErrInvalidTransition, action, h.Status)
	}
	return r.to, nil
}

func hasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
