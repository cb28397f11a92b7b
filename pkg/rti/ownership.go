package rti

import (
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/ownership"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

var noticeCallbacks = map[ownership.NoticeKind]wire.CallbackKind{
	ownership.NoticeAssumptionRequested:   wire.CallbackRequestAttributeOwnershipAssumption,
	ownership.NoticeDivestiture:           wire.CallbackAttributeOwnershipDivestitureNotification,
	ownership.NoticeAcquisition:           wire.CallbackAttributeOwnershipAcquisitionNotification,
	ownership.NoticeUnavailable:           wire.CallbackAttributeOwnershipUnavailable,
	ownership.NoticeReleaseRequested:      wire.CallbackRequestAttributeOwnershipRelease,
	ownership.NoticeCancellationConfirmed: wire.CallbackConfirmAttributeOwnershipAcquisitionCancellation,
}

// deliverNotices queues the callbacks an ownership operation produced.
func (f *Federation) deliverNotices(notices []ownership.Notice) {
	for _, n := range notices {
		kind, ok := noticeCallbacks[n.Kind]
		if !ok {
			continue
		}
		f.post(n.Federate, wire.Callback{
			Kind:       kind,
			Object:     n.Object,
			Attributes: n.Attributes.Sorted(),
			Tag:        n.Tag,
		})
		f.logger.Debug("ownership notice", "federate", n.Federate, "object", n.Object, "notice", n.Kind.String())
	}
}

func (f *Federation) unconditionalDivest(m *member, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) error {
	notices, err := f.owners.UnconditionalDivest(m.handle, obj, attrs)
	if err != nil {
		return err
	}
	f.deliverNotices(notices)
	return nil
}

func (f *Federation) negotiatedDivest(m *member, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet, tag []byte) error {
	notices, err := f.owners.NegotiatedDivest(m.handle, obj, attrs, tag)
	if err != nil {
		return err
	}
	f.deliverNotices(notices)
	return nil
}

func (f *Federation) acquire(m *member, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet, tag []byte) error {
	notices, err := f.owners.Acquire(m.handle, obj, attrs, tag)
	if err != nil {
		return err
	}
	f.deliverNotices(notices)
	return nil
}

func (f *Federation) acquireIfAvailable(m *member, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) error {
	notices, err := f.owners.AcquireIfAvailable(m.handle, obj, attrs)
	if err != nil {
		return err
	}
	f.deliverNotices(notices)
	return nil
}

func (f *Federation) releaseResponse(m *member, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) (wire.Result, error) {
	released, notices, err := f.owners.ReleaseResponse(m.handle, obj, attrs)
	if err != nil {
		return wire.Result{}, err
	}
	f.deliverNotices(notices)
	return wire.Result{Object: obj, Attributes: released.Sorted()}, nil
}

func (f *Federation) cancelDivest(m *member, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) error {
	return f.owners.CancelNegotiatedDivest(m.handle, obj, attrs)
}

func (f *Federation) cancelAcquisition(m *member, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) error {
	notices, err := f.owners.CancelAcquisition(m.handle, obj, attrs)
	if err != nil {
		return err
	}
	f.deliverNotices(notices)
	return nil
}

// queryOwnership answers with one callback per attribute.
func (f *Federation) queryOwnership(m *member, obj hla.ObjectInstanceHandle, attrs []hla.AttributeHandle) error {
	owners := make([]hla.FederateHandle, len(attrs))
	for i, a := range attrs {
		owner, err := f.owners.Owner(m.handle, obj, a)
		if err != nil {
			return err
		}
		owners[i] = owner
	}

	for i, a := range attrs {
		cb := wire.Callback{Object: obj, Attributes: []hla.AttributeHandle{a}}
		switch owners[i] {
		case hla.Unowned:
			cb.Kind = wire.CallbackAttributeIsNotOwned
		case hla.RTIOwned:
			cb.Kind = wire.CallbackAttributeOwnedByRTI
		default:
			cb.Kind = wire.CallbackInformAttributeOwnership
			cb.Federate = owners[i]
		}
		f.post(m.handle, cb)
	}
	return nil
}

func (f *Federation) isOwnedBy(m *member, obj hla.ObjectInstanceHandle, attrs []hla.AttributeHandle) (wire.Result, error) {
	if len(attrs) == 0 {
		return wire.Result{}, rtierr.New(rtierr.AttributeNotDefined, "no attribute given")
	}
	owned := true
	for _, a := range attrs {
		ok, err := f.owners.IsOwnedBy(m.handle, obj, a)
		if err != nil {
			return wire.Result{}, err
		}
		owned = owned && ok
	}
	return wire.Result{Object: obj, Owned: owned}, nil
}
