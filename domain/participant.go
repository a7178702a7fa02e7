// Package domain contains core concepts of the marketplace.
// This file defines participant sets and their invariants.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"fmt"
	"market-lab/errors"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// MinParticipants is the smallest number of distinct users a conversation can hold.
const MinParticipants = 2

// ParticipantSet is a sorted list of distinct, non-empty user ids.
type ParticipantSet []string

// NewParticipantSet normalizes ids into a ParticipantSet.
// Blank ids are dropped and duplicates collapse to one entry.
func NewParticipantSet(ids ...string) (ParticipantSet, error) {
	trimmed := lo.Map(ids, func(id string, _ int) string { return strings.TrimSpace(id) })
	unique := lo.Uniq(lo.Compact(trimmed))
	if len(unique) < MinParticipants {
		return nil, fmt.Errorf("%w: need %d distinct users, got %d",
			errors.ErrInvalidParticipants, MinParticipants, len(unique))
	}
	slices.Sort(unique)
	return unique, nil
}

// Key is the canonical identity of the set, equal for any ordering of the same ids.
func (p ParticipantSet) Key() string {
	return strings.Join(p, "\x1f")
}

func (p ParticipantSet) Contains(userID string) bool {
	_, found := slices.BinarySearch(p, userID)
	return found
}

// Others returns every participant except userID.
func (p ParticipantSet) Others(userID string) []string {
	return lo.Without(p, userID)
}
