// Package session holds the per-session conversation state of the travel
// concierge (accumulated rider preferences, trip facts, and message
// history) together with the pluggable stores that persist it.
package session

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/yalla-trip/concierge/core/protocol"
)

// Budget is a rider's spending preference.
type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

// Pace is a rider's preferred travel tempo.
type Pace string

const (
	PaceRelaxed   Pace = "relaxed"
	PaceModerate  Pace = "moderate"
	PaceFastPaced Pace = "fast_paced"
)

// UserProfile accumulates rider preferences across turns. Fields are
// pointers so "never mentioned" survives a serialize/deserialize round trip
// without collapsing into an empty string.
type UserProfile struct {
	Budget    *Budget  `json:"budget"`
	Pace      *Pace    `json:"pace"`
	Interests []string `json:"interests"`
}

// Validate checks enum fields against their closed value sets.
func (p UserProfile) Validate() error {
	if p.Budget != nil {
		switch *p.Budget {
		case BudgetLow, BudgetMedium, BudgetHigh:
		default:
			return fmt.Errorf("%w: budget %q", ErrInvalidField, *p.Budget)
		}
	}
	if p.Pace != nil {
		switch *p.Pace {
		case PaceRelaxed, PaceModerate, PaceFastPaced:
		default:
			return fmt.Errorf("%w: pace %q", ErrInvalidField, *p.Pace)
		}
	}
	return nil
}

// TripSpec accumulates trip facts across turns. Dates are free text: the
// router passes through whatever the user said ("2024-03-01", "next week").
type TripSpec struct {
	Destination  *string `json:"destination"`
	Origin       *string `json:"origin"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	DurationDays *int    `json:"duration_days"`
	Travelers    *string `json:"travelers"`
}

// State is the per-session aggregate persisted between turns. History grows
// by exactly two records per completed turn (one user, one assistant).
type State struct {
	UserProfile UserProfile        `json:"user_profile"`
	TripSpec    TripSpec           `json:"trip_spec"`
	History     []protocol.Message `json:"history"`
}

// NewState returns the empty default state used for unknown session ids.
func NewState() *State {
	return &State{}
}

// Clone returns a deep copy, so stores can hand out state without aliasing
// their own records.
func (s *State) Clone() *State {
	out := &State{
		UserProfile: UserProfile{
			Budget:    clonePtr(s.UserProfile.Budget),
			Pace:      clonePtr(s.UserProfile.Pace),
			Interests: slices.Clone(s.UserProfile.Interests),
		},
		TripSpec: TripSpec{
			Destination:  clonePtr(s.TripSpec.Destination),
			Origin:       clonePtr(s.TripSpec.Origin),
			StartDate:    clonePtr(s.TripSpec.StartDate),
			EndDate:      clonePtr(s.TripSpec.EndDate),
			DurationDays: clonePtr(s.TripSpec.DurationDays),
			Travelers:    clonePtr(s.TripSpec.Travelers),
		},
		History: slices.Clone(s.History),
	}
	return out
}

// Window returns the trailing n history records, or the whole history when
// it is shorter. n <= 0 yields an empty slice.
func (s *State) Window(n int) []protocol.Message {
	if n <= 0 {
		return nil
	}
	return lo.Subset(s.History, -n, uint(n))
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
