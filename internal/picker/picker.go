// Package picker implements weighted random person selection.
package picker

import (
	"errors"
	"math/rand"
	"time"

	"github.com/tverner/pickr/internal/model"
)

// ErrNoCandidates is returned when no active person is left to propose.
var ErrNoCandidates = errors.New("no active persons to propose")

// Decision is the user's answer to a proposal.
type Decision int

// Decision values.
const (
	Rejected Decision = iota
	Accepted
)

// Picker draws persons at random, biased by their history counters.
type Picker struct {
	rnd *rand.Rand
}

// New returns a Picker seeded with the current time.
func New() *Picker {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Picker with a fixed seed, for reproducible draws.
func NewSeeded(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Weight computes a person's current selection weight. Weights start at 1.0
// and grow linearly with each counter, so they never drop below 1.0.
func Weight(p *model.Person, unproposedFactor, rejectedFactor float64) float64 {
	return 1.0 + unproposedFactor*float64(p.TimesUnproposed) + rejectedFactor*float64(p.TimesRejected)
}

// Propose draws one active person, with probability proportional to weight.
// Counters are not touched; Apply records the decision afterwards.
func (pk *Picker) Propose(s *model.Settings) (*model.Person, error) {
	total := 0.0
	candidates := make([]*model.Person, 0, len(s.Persons))
	weights := make([]float64, 0, len(s.Persons))
	for _, p := range s.Persons {
		if !p.Active {
			continue
		}
		w := Weight(p, s.UnproposedFactor, s.RejectedFactor)
		candidates = append(candidates, p)
		weights = append(weights, w)
		total += w
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	r := pk.rnd.Float64() * total
	acc := 0.0
	idx := 0
	for i, w := range weights {
		acc += w
		if r <= acc {
			idx = i
			break
		}
	}
	return candidates[idx], nil
}

// Apply records a decision on the proposed person. Accepting resets the
// proposed person's counters; rejecting increments their rejection counter.
// Every other active person's unproposed counter increments by one either
// way. Inactive persons are never touched.
func Apply(s *model.Settings, proposed *model.Person, d Decision) {
	for _, p := range s.Persons {
		if !p.Active {
			continue
		}
		if p == proposed {
			if d == Accepted {
				p.TimesUnproposed = 0
				p.TimesRejected = 0
			} else {
				p.TimesRejected++
			}
			continue
		}
		p.TimesUnproposed++
	}
}
