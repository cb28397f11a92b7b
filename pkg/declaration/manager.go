package declaration

import (
	"maps"
	"slices"
	"sync"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// ObjectSubscription is one federate's subscription to one object class.
type ObjectSubscription struct {
	// Default holds the attributes subscribed without a region.
	Default hla.AttributeHandleSet

	// Regions holds the attributes subscribed through each region.
	Regions map[hla.RegionHandle]hla.AttributeHandleSet

	// Active is false for passive subscriptions.
	Active bool
}

func (s *ObjectSubscription) empty() bool {
	return s.Default.IsEmpty() && len(s.Regions) == 0
}

// Attributes returns every attribute subscribed by any means.
func (s *ObjectSubscription) Attributes() hla.AttributeHandleSet {
	all := s.Default.Clone()
	for _, attrs := range s.Regions {
		for a := range attrs {
			all.Add(a)
		}
	}
	return all
}

// Relevant reports whether an update of attr is relevant to this
// subscription. updateRegion is the region the attribute is associated with
// for updates, or zero. overlaps tests an update region against one of this
// subscription's regions.
func (s *ObjectSubscription) Relevant(attr hla.AttributeHandle, updateRegion hla.RegionHandle, overlaps func(update, sub hla.RegionHandle) bool) bool {
	if s.Default.Contains(attr) {
		return true
	}
	for r, attrs := range s.Regions {
		if !attrs.Contains(attr) {
			continue
		}
		if updateRegion == 0 || overlaps(updateRegion, r) {
			return true
		}
	}
	return false
}

func (s *ObjectSubscription) clone() *ObjectSubscription {
	c := &ObjectSubscription{
		Default: s.Default.Clone(),
		Regions: make(map[hla.RegionHandle]hla.AttributeHandleSet, len(s.Regions)),
		Active:  s.Active,
	}
	for r, attrs := range s.Regions {
		c.Regions[r] = attrs.Clone()
	}
	return c
}

// InteractionSubscription is one federate's subscription to one interaction
// class.
type InteractionSubscription struct {
	Default bool
	Regions hla.HandleSet[hla.RegionHandle]
	Active  bool
}

func (s *InteractionSubscription) empty() bool {
	return !s.Default && s.Regions.IsEmpty()
}

// Relevant reports whether an interaction sent with region sent (zero for
// none) reaches this subscription.
func (s *InteractionSubscription) Relevant(sent hla.RegionHandle, overlaps func(update, sub hla.RegionHandle) bool) bool {
	if s.Default || sent == 0 {
		return true
	}
	for r := range s.Regions {
		if overlaps(sent, r) {
			return true
		}
	}
	return false
}

type interactionSet = hla.HandleSet[hla.InteractionClassHandle]

// Manager holds the declarations of one federation.
type Manager struct {
	mu sync.RWMutex

	objPubs map[hla.FederateHandle]map[hla.ObjectClassHandle]hla.AttributeHandleSet
	objSubs map[hla.FederateHandle]map[hla.ObjectClassHandle]*ObjectSubscription
	intPubs map[hla.FederateHandle]interactionSet
	intSubs map[hla.FederateHandle]map[hla.InteractionClassHandle]*InteractionSubscription
}

// NewManager creates an empty declaration manager.
func NewManager() *Manager {
	return &Manager{
		objPubs: make(map[hla.FederateHandle]map[hla.ObjectClassHandle]hla.AttributeHandleSet),
		objSubs: make(map[hla.FederateHandle]map[hla.ObjectClassHandle]*ObjectSubscription),
		intPubs: make(map[hla.FederateHandle]interactionSet),
		intSubs: make(map[hla.FederateHandle]map[hla.InteractionClassHandle]*InteractionSubscription),
	}
}

// PublishObjectClass sets the published attributes of class to exactly attrs.
// An empty set unpublishes the class.
func (m *Manager) PublishObjectClass(fed hla.FederateHandle, class hla.ObjectClassHandle, attrs hla.AttributeHandleSet) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if attrs.IsEmpty() {
		delete(m.objPubs[fed], class)
		return
	}
	pubs, ok := m.objPubs[fed]
	if !ok {
		pubs = make(map[hla.ObjectClassHandle]hla.AttributeHandleSet)
		m.objPubs[fed] = pubs
	}
	pubs[class] = attrs.Clone()
}

// UnpublishObjectClass removes the publication of class.
func (m *Manager) UnpublishObjectClass(fed hla.FederateHandle, class hla.ObjectClassHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objPubs[fed][class]; !ok {
		return rtierr.Errorf(rtierr.ObjectClassNotPublished, "object class %d is not published by federate %d", class, fed)
	}
	delete(m.objPubs[fed], class)
	return nil
}

// PublishedAttributes returns the attributes fed publishes for class; the
// result is empty when the class is not published.
func (m *Manager) PublishedAttributes(fed hla.FederateHandle, class hla.ObjectClassHandle) hla.AttributeHandleSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objPubs[fed][class].Clone()
}

// IsObjectClassPublished reports whether fed publishes class.
func (m *Manager) IsObjectClassPublished(fed hla.FederateHandle, class hla.ObjectClassHandle) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objPubs[fed][class]
	return ok
}

// IsAttributePublished reports whether fed publishes attr for class.
func (m *Manager) IsAttributePublished(fed hla.FederateHandle, class hla.ObjectClassHandle, attr hla.AttributeHandle) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objPubs[fed][class].Contains(attr)
}

// ObjectPublishers returns every federate publishing class, ordered by handle.
func (m *Manager) ObjectPublishers(class hla.ObjectClassHandle) []hla.FederateHandle {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []hla.FederateHandle
	for fed, pubs := range m.objPubs {
		if _, ok := pubs[class]; ok {
			out = append(out, fed)
		}
	}
	slices.Sort(out)
	return out
}

func (m *Manager) objectSubscription(fed hla.FederateHandle, class hla.ObjectClassHandle, create bool) *ObjectSubscription {
	subs, ok := m.objSubs[fed]
	if !ok {
		if !create {
			return nil
		}
		subs = make(map[hla.ObjectClassHandle]*ObjectSubscription)
		m.objSubs[fed] = subs
	}
	s, ok := subs[class]
	if !ok && create {
		s = &ObjectSubscription{Regions: make(map[hla.RegionHandle]hla.AttributeHandleSet)}
		subs[class] = s
	}
	return s
}

func (m *Manager) pruneObjectSubscription(fed hla.FederateHandle, class hla.ObjectClassHandle) {
	if s := m.objSubs[fed][class]; s != nil && s.empty() {
		delete(m.objSubs[fed], class)
	}
}

// SubscribeObjectClassAttributes sets the default subscription of class to
// exactly attrs. An empty set removes the default subscription.
func (m *Manager) SubscribeObjectClassAttributes(fed hla.FederateHandle, class hla.ObjectClassHandle, attrs hla.AttributeHandleSet, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if attrs.IsEmpty() {
		if s := m.objectSubscription(fed, class, false); s != nil {
			s.Default = nil
			m.pruneObjectSubscription(fed, class)
		}
		return
	}
	s := m.objectSubscription(fed, class, true)
	s.Default = attrs.Clone()
	s.Active = active
}

// UnsubscribeObjectClass removes the default subscription of class.
func (m *Manager) UnsubscribeObjectClass(fed hla.FederateHandle, class hla.ObjectClassHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.objectSubscription(fed, class, false)
	if s == nil || s.Default.IsEmpty() {
		return rtierr.Errorf(rtierr.ObjectClassNotSubscribed, "object class %d is not subscribed by federate %d", class, fed)
	}
	s.Default = nil
	m.pruneObjectSubscription(fed, class)
	return nil
}

// SubscribeObjectClassAttributesWithRegion sets the attributes subscribed
// through region to exactly attrs. An empty set removes the region.
func (m *Manager) SubscribeObjectClassAttributesWithRegion(fed hla.FederateHandle, class hla.ObjectClassHandle, region hla.RegionHandle, attrs hla.AttributeHandleSet, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if attrs.IsEmpty() {
		if s := m.objectSubscription(fed, class, false); s != nil {
			delete(s.Regions, region)
			m.pruneObjectSubscription(fed, class)
		}
		return
	}
	s := m.objectSubscription(fed, class, true)
	s.Regions[region] = attrs.Clone()
	s.Active = active
}

// UnsubscribeObjectClassWithRegion removes the subscription of class through
// region.
func (m *Manager) UnsubscribeObjectClassWithRegion(fed hla.FederateHandle, class hla.ObjectClassHandle, region hla.RegionHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.objectSubscription(fed, class, false)
	if s == nil {
		return rtierr.Errorf(rtierr.ObjectClassNotSubscribed, "object class %d is not subscribed by federate %d", class, fed)
	}
	if _, ok := s.Regions[region]; !ok {
		return rtierr.Errorf(rtierr.ObjectClassNotSubscribed, "object class %d is not subscribed with region %d", class, region)
	}
	delete(s.Regions, region)
	m.pruneObjectSubscription(fed, class)
	return nil
}

// ObjectSubscription returns a copy of fed's subscription to class.
func (m *Manager) ObjectSubscription(fed hla.FederateHandle, class hla.ObjectClassHandle) (*ObjectSubscription, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.objSubs[fed][class]
	if s == nil {
		return nil, false
	}
	return s.clone(), true
}

// IsObjectClassSubscribed reports whether fed subscribes to class by any means.
func (m *Manager) IsObjectClassSubscribed(fed hla.FederateHandle, class hla.ObjectClassHandle) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objSubs[fed][class]
	return ok
}

// Subscription pairs a subscriber with the class it subscribed to.
type Subscription struct {
	Federate hla.FederateHandle
	Class    hla.ObjectClassHandle
	*ObjectSubscription
}

// ObjectSubscribers returns, for every federate subscribed to a class of
// chain, its subscription to the first such class. chain lists a class
// followed by its ancestors up to the root.
func (m *Manager) ObjectSubscribers(chain []hla.ObjectClassHandle) []Subscription {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Subscription
	for _, fed := range slices.Sorted(maps.Keys(m.objSubs)) {
		subs := m.objSubs[fed]
		for _, class := range chain {
			if s, ok := subs[class]; ok {
				out = append(out, Subscription{Federate: fed, Class: class, ObjectSubscription: s.clone()})
				break
			}
		}
	}
	return out
}

// PublishInteractionClass publishes class.
func (m *Manager) PublishInteractionClass(fed hla.FederateHandle, class hla.InteractionClassHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pubs, ok := m.intPubs[fed]
	if !ok {
		pubs = make(interactionSet)
		m.intPubs[fed] = pubs
	}
	pubs.Add(class)
}

// UnpublishInteractionClass removes the publication of class.
func (m *Manager) UnpublishInteractionClass(fed hla.FederateHandle, class hla.InteractionClassHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.intPubs[fed].Contains(class) {
		return rtierr.Errorf(rtierr.InteractionClassNotPublished, "interaction class %d is not published by federate %d", class, fed)
	}
	m.intPubs[fed].Remove(class)
	return nil
}

// IsInteractionClassPublished reports whether fed publishes class.
func (m *Manager) IsInteractionClassPublished(fed hla.FederateHandle, class hla.InteractionClassHandle) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.intPubs[fed].Contains(class)
}

// InteractionPublishers returns every federate publishing class.
func (m *Manager) InteractionPublishers(class hla.InteractionClassHandle) []hla.FederateHandle {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []hla.FederateHandle
	for fed, pubs := range m.intPubs {
		if pubs.Contains(class) {
			out = append(out, fed)
		}
	}
	slices.Sort(out)
	return out
}

func (m *Manager) interactionSubscription(fed hla.FederateHandle, class hla.InteractionClassHandle, create bool) *InteractionSubscription {
	subs, ok := m.intSubs[fed]
	if !ok {
		if !create {
			return nil
		}
		subs = make(map[hla.InteractionClassHandle]*InteractionSubscription)
		m.intSubs[fed] = subs
	}
	s, ok := subs[class]
	if !ok && create {
		s = &InteractionSubscription{Regions: make(hla.HandleSet[hla.RegionHandle])}
		subs[class] = s
	}
	return s
}

func (m *Manager) pruneInteractionSubscription(fed hla.FederateHandle, class hla.InteractionClassHandle) {
	if s := m.intSubs[fed][class]; s != nil && s.empty() {
		delete(m.intSubs[fed], class)
	}
}

// SubscribeInteractionClass subscribes to class without a region.
func (m *Manager) SubscribeInteractionClass(fed hla.FederateHandle, class hla.InteractionClassHandle, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.interactionSubscription(fed, class, true)
	s.Default = true
	s.Active = active
}

// UnsubscribeInteractionClass removes the region-less subscription of class.
func (m *Manager) UnsubscribeInteractionClass(fed hla.FederateHandle, class hla.InteractionClassHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.interactionSubscription(fed, class, false)
	if s == nil || !s.Default {
		return rtierr.Errorf(rtierr.InteractionClassNotSubscribed, "interaction class %d is not subscribed by federate %d", class, fed)
	}
	s.Default = false
	m.pruneInteractionSubscription(fed, class)
	return nil
}

// SubscribeInteractionClassWithRegion subscribes to class through region.
func (m *Manager) SubscribeInteractionClassWithRegion(fed hla.FederateHandle, class hla.InteractionClassHandle, region hla.RegionHandle, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.interactionSubscription(fed, class, true)
	s.Regions.Add(region)
	s.Active = active
}

// UnsubscribeInteractionClassWithRegion removes the subscription of class
// through region.
func (m *Manager) UnsubscribeInteractionClassWithRegion(fed hla.FederateHandle, class hla.InteractionClassHandle, region hla.RegionHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.interactionSubscription(fed, class, false)
	if s == nil || !s.Regions.Contains(region) {
		return rtierr.Errorf(rtierr.InteractionClassNotSubscribed, "interaction class %d is not subscribed with region %d", class, region)
	}
	s.Regions.Remove(region)
	m.pruneInteractionSubscription(fed, class)
	return nil
}

// IsInteractionClassSubscribed reports whether fed subscribes to class.
func (m *Manager) IsInteractionClassSubscribed(fed hla.FederateHandle, class hla.InteractionClassHandle) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.intSubs[fed][class]
	return ok
}

// InteractionSubscriber pairs a subscriber with the class it subscribed to.
type InteractionSubscriber struct {
	Federate hla.FederateHandle
	Class    hla.InteractionClassHandle
	InteractionSubscription
}

// InteractionSubscribers returns, for every federate subscribed to a class of
// chain, its subscription to the first such class.
func (m *Manager) InteractionSubscribers(chain []hla.InteractionClassHandle) []InteractionSubscriber {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []InteractionSubscriber
	for _, fed := range slices.Sorted(maps.Keys(m.intSubs)) {
		subs := m.intSubs[fed]
		for _, class := range chain {
			if s, ok := subs[class]; ok {
				out = append(out, InteractionSubscriber{
					Federate: fed,
					Class:    class,
					InteractionSubscription: InteractionSubscription{
						Default: s.Default,
						Regions: s.Regions.Clone(),
						Active:  s.Active,
					},
				})
				break
			}
		}
	}
	return out
}

// RegionInUse reports whether any subscription refers to region.
func (m *Manager) RegionInUse(region hla.RegionHandle) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, subs := range m.objSubs {
		for _, s := range subs {
			if _, ok := s.Regions[region]; ok {
				return true
			}
		}
	}
	for _, subs := range m.intSubs {
		for _, s := range subs {
			if s.Regions.Contains(region) {
				return true
			}
		}
	}
	return false
}

// RemoveFederate drops every declaration of fed.
func (m *Manager) RemoveFederate(fed hla.FederateHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objPubs, fed)
	delete(m.objSubs, fed)
	delete(m.intPubs, fed)
	delete(m.intSubs, fed)
}
