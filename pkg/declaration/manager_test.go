package declaration

import (
	"errors"
	"testing"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

const (
	fedA hla.FederateHandle = 1
	fedB hla.FederateHandle = 2

	classA hla.ObjectClassHandle = 10
	classB hla.ObjectClassHandle = 11 // subclass of A
)

func attrs(h ...hla.AttributeHandle) hla.AttributeHandleSet {
	return hla.NewAttributeHandleSet(h...)
}

func TestPublishReplacesNotUnions(t *testing.T) {
	m := NewManager()

	m.PublishObjectClass(fedA, classA, attrs(1))
	m.PublishObjectClass(fedA, classA, attrs(2))

	got := m.PublishedAttributes(fedA, classA)
	if !got.Equal(attrs(2)) {
		t.Errorf("PublishedAttributes() = %v, want {2}", got.Sorted())
	}
}

func TestPublishEmptyUnpublishes(t *testing.T) {
	m := NewManager()

	m.PublishObjectClass(fedA, classA, attrs(1, 2))
	m.PublishObjectClass(fedA, classA, nil)

	if m.IsObjectClassPublished(fedA, classA) {
		t.Error("class should not be published after an empty publish")
	}
	err := m.UnpublishObjectClass(fedA, classA)
	if !errors.Is(err, rtierr.ObjectClassNotPublished) {
		t.Errorf("UnpublishObjectClass() error = %v, want ObjectClassNotPublished", err)
	}
}

func TestSubscribeReplacesAndEmptyUnsubscribes(t *testing.T) {
	m := NewManager()

	m.SubscribeObjectClassAttributes(fedB, classA, attrs(1, 2), true)
	m.SubscribeObjectClassAttributes(fedB, classA, attrs(3), false)

	s, ok := m.ObjectSubscription(fedB, classA)
	if !ok {
		t.Fatal("expected a subscription")
	}
	if !s.Default.Equal(attrs(3)) || s.Active {
		t.Errorf("subscription = %v active=%v, want {3} passive", s.Default.Sorted(), s.Active)
	}

	m.SubscribeObjectClassAttributes(fedB, classA, attrs(), true)
	if m.IsObjectClassSubscribed(fedB, classA) {
		t.Error("class should not be subscribed after an empty subscribe")
	}
	if err := m.UnsubscribeObjectClass(fedB, classA); !errors.Is(err, rtierr.ObjectClassNotSubscribed) {
		t.Errorf("UnsubscribeObjectClass() error = %v, want ObjectClassNotSubscribed", err)
	}
}

func TestObjectSubscribersUsesClosestClass(t *testing.T) {
	m := NewManager()

	m.SubscribeObjectClassAttributes(fedA, classA, attrs(1), true)
	m.SubscribeObjectClassAttributes(fedB, classA, attrs(1), true)
	m.SubscribeObjectClassAttributes(fedB, classB, attrs(1, 5), true)

	subs := m.ObjectSubscribers([]hla.ObjectClassHandle{classB, classA})
	if len(subs) != 2 {
		t.Fatalf("ObjectSubscribers() returned %d subscriptions, want 2", len(subs))
	}
	if subs[0].Federate != fedA || subs[0].Class != classA {
		t.Errorf("subs[0] = %d/%d, want %d/%d", subs[0].Federate, subs[0].Class, fedA, classA)
	}
	if subs[1].Federate != fedB || subs[1].Class != classB {
		t.Errorf("subs[1] = %d/%d, want %d/%d", subs[1].Federate, subs[1].Class, fedB, classB)
	}
}

func TestRegionRelevance(t *testing.T) {
	m := NewManager()
	m.SubscribeObjectClassAttributesWithRegion(fedB, classA, 7, attrs(1), true)

	s, _ := m.ObjectSubscription(fedB, classA)
	overlapping := func(update, sub hla.RegionHandle) bool { return update == 3 && sub == 7 }

	tests := []struct {
		name   string
		attr   hla.AttributeHandle
		region hla.RegionHandle
		want   bool
	}{
		{"unassociated attribute", 1, 0, true},
		{"overlapping region", 1, 3, true},
		{"disjoint region", 1, 4, false},
		{"attribute not subscribed", 2, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Relevant(tt.attr, tt.region, overlapping); got != tt.want {
				t.Errorf("Relevant() = %v, want %v", got, tt.want)
			}
		})
	}

	if !m.RegionInUse(7) {
		t.Error("RegionInUse(7) = false")
	}
	if err := m.UnsubscribeObjectClassWithRegion(fedB, classA, 8); !errors.Is(err, rtierr.ObjectClassNotSubscribed) {
		t.Errorf("UnsubscribeObjectClassWithRegion(unknown) error = %v", err)
	}
	if err := m.UnsubscribeObjectClassWithRegion(fedB, classA, 7); err != nil {
		t.Errorf("UnsubscribeObjectClassWithRegion() error = %v", err)
	}
	if m.IsObjectClassSubscribed(fedB, classA) {
		t.Error("subscription should be gone")
	}
}

func TestInteractionDeclarations(t *testing.T) {
	m := NewManager()
	const x hla.InteractionClassHandle = 4

	if err := m.UnpublishInteractionClass(fedA, x); !errors.Is(err, rtierr.InteractionClassNotPublished) {
		t.Errorf("UnpublishInteractionClass() error = %v", err)
	}
	m.PublishInteractionClass(fedA, x)
	if got := m.InteractionPublishers(x); len(got) != 1 || got[0] != fedA {
		t.Errorf("InteractionPublishers() = %v", got)
	}

	m.SubscribeInteractionClass(fedB, x, true)
	subs := m.InteractionSubscribers([]hla.InteractionClassHandle{x})
	if len(subs) != 1 || !subs[0].Default {
		t.Fatalf("InteractionSubscribers() = %+v", subs)
	}
	if err := m.UnsubscribeInteractionClass(fedB, x); err != nil {
		t.Errorf("UnsubscribeInteractionClass() error = %v", err)
	}
	if err := m.UnsubscribeInteractionClass(fedB, x); !errors.Is(err, rtierr.InteractionClassNotSubscribed) {
		t.Errorf("second UnsubscribeInteractionClass() error = %v", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	m := NewManager()
	m.PublishObjectClass(fedA, classA, attrs(1, 2))
	m.SubscribeObjectClassAttributes(fedB, classA, attrs(1), true)
	m.SubscribeObjectClassAttributesWithRegion(fedB, classB, 9, attrs(5), false)
	m.PublishInteractionClass(fedA, 4)
	m.SubscribeInteractionClassWithRegion(fedB, 4, 9, true)

	m2 := NewManager()
	m2.Restore(m.Snapshot())

	if !m2.PublishedAttributes(fedA, classA).Equal(attrs(1, 2)) {
		t.Error("publication not restored")
	}
	s, ok := m2.ObjectSubscription(fedB, classB)
	if !ok || !s.Regions[9].Equal(attrs(5)) || s.Active {
		t.Errorf("region subscription not restored: %+v", s)
	}
	if !m2.IsInteractionClassPublished(fedA, 4) || !m2.RegionInUse(9) {
		t.Error("interaction declarations not restored")
	}

	m2.RemoveFederate(fedB)
	if m2.IsObjectClassSubscribed(fedB, classA) {
		t.Error("RemoveFederate() left a subscription")
	}
}
