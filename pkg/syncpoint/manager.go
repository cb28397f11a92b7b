package syncpoint

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// ErrLabelInUse is returned by Register when the label is outstanding.
var ErrLabelInUse = errors.New("synchronization point label already registered")

// ErrEmptyLabel is returned by Register for an empty label.
var ErrEmptyLabel = errors.New("synchronization point label is empty")

// ErrUnknownTarget is returned by Register when a target has not joined.
var ErrUnknownTarget = errors.New("synchronization point target is not joined")

// Point is one outstanding synchronization point.
type Point struct {
	Label      string
	Tag        []byte
	Registrant hla.FederateHandle

	// Everyone is true when the point was registered without a target set;
	// federates joining later are added to Targets.
	Everyone bool
	Targets  hla.FederateHandleSet
	Achieved hla.FederateHandleSet
}

// Waiting returns the targets that have not achieved the point, sorted.
func (p *Point) Waiting() []hla.FederateHandle {
	return p.Targets.Difference(p.Achieved).Sorted()
}

func (p *Point) complete() bool {
	return p.Achieved.ContainsAll(p.Targets)
}

func (p *Point) clone() *Point {
	c := *p
	c.Tag = slices.Clone(p.Tag)
	c.Targets = p.Targets.Clone()
	c.Achieved = p.Achieved.Clone()
	return &c
}

// Manager holds the outstanding points of one federation.
type Manager struct {
	mu     sync.Mutex
	points map[string]*Point
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{points: make(map[string]*Point)}
}

// Register records a new point and returns it. When targets is empty the
// point targets every federate in joined; otherwise every target must be in
// joined.
func (m *Manager) Register(registrant hla.FederateHandle, label string, tag []byte, targets, joined hla.FederateHandleSet) (*Point, error) {
	if label == "" {
		return nil, ErrEmptyLabel
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.points[label]; exists {
		return nil, ErrLabelInUse
	}
	if missing := targets.Difference(joined); !missing.IsEmpty() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTarget, missing.Sorted())
	}
	p := &Point{
		Label:      label,
		Tag:        slices.Clone(tag),
		Registrant: registrant,
		Achieved:   hla.NewFederateHandleSet(),
	}
	if targets.IsEmpty() {
		p.Everyone = true
		p.Targets = joined.Clone()
	} else {
		p.Targets = targets.Clone()
	}
	m.points[label] = p
	return p.clone(), nil
}

// Achieve marks label achieved by fed. When fed was the last target the
// point is retired and returned with done set.
func (m *Manager) Achieve(fed hla.FederateHandle, label string) (p *Point, done bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pt, ok := m.points[label]
	if !ok || !pt.Targets.Contains(fed) {
		return nil, false, rtierr.Errorf(rtierr.SynchronizationPointLabelWasNotAnnounced,
			"synchronization point %q was not announced to federate %d", label, fed)
	}
	pt.Achieved.Add(fed)
	if !pt.complete() {
		return pt.clone(), false, nil
	}
	delete(m.points, label)
	return pt, true, nil
}

// Join adds fed to every outstanding point that targets everybody and
// returns those points so they can be announced to it.
func (m *Manager) Join(fed hla.FederateHandle) []*Point {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Point
	for _, label := range slices.Sorted(maps.Keys(m.points)) {
		p := m.points[label]
		if p.Everyone {
			p.Targets.Add(fed)
			out = append(out, p.clone())
		}
	}
	return out
}

// Remove drops fed from every point and returns the points that became
// synchronized as a result. Those points are retired.
func (m *Manager) Remove(fed hla.FederateHandle) []*Point {
	m.mu.Lock()
	defer m.mu.Unlock()

	var done []*Point
	for _, label := range slices.Sorted(maps.Keys(m.points)) {
		p := m.points[label]
		if !p.Targets.Contains(fed) {
			continue
		}
		p.Targets.Remove(fed)
		p.Achieved.Remove(fed)
		if p.Targets.IsEmpty() {
			delete(m.points, label)
			continue
		}
		if p.complete() {
			delete(m.points, label)
			done = append(done, p)
		}
	}
	return done
}

// Get returns a copy of the outstanding point with the given label.
func (m *Manager) Get(label string) (*Point, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.points[label]
	if !ok {
		return nil, false
	}
	return p.clone(), true
}

// Outstanding returns copies of every outstanding point ordered by label.
func (m *Manager) Outstanding() []*Point {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Point, 0, len(m.points))
	for _, label := range slices.Sorted(maps.Keys(m.points)) {
		out = append(out, m.points[label].clone())
	}
	return out
}
