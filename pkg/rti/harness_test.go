package rti

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/version"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

const testFederation = "TestFederation"

func testDocument() *fom.Document {
	return &fom.Document{
		Name: "TestFOM",
		Spaces: []fom.SpaceDoc{
			{Name: "TestSpace", Dimensions: []string{"TestDimension", "OtherDimension"}},
		},
		Objects: []fom.ObjectClassDoc{{
			Name:       "A",
			Attributes: []fom.AttributeDoc{{Name: "aa"}, {Name: "ab"}, {Name: "ac"}},
			Classes: []fom.ObjectClassDoc{{
				Name: "B",
				Attributes: []fom.AttributeDoc{
					{Name: "ba"},
					{Name: "bb"},
					{Name: "bc", Order: "timestamp", Space: "TestSpace"},
				},
			}},
		}},
		Interactions: []fom.InteractionClassDoc{
			{
				Name:       "X",
				Order:      "timestamp",
				Parameters: []string{"xa", "xb", "xc"},
				Classes:    []fom.InteractionClassDoc{{Name: "Y", Parameters: []string{"ya"}}},
			},
			{Name: "Z", Space: "TestSpace", Parameters: []string{"za"}},
		},
	}
}

// harness drives a kernel through Process, the way a binding does.
type harness struct {
	t     *testing.T
	k     *Kernel
	model *fom.Model
	msgID uint32
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithConfig(t, DefaultConfig())
}

func newHarnessWithConfig(t *testing.T, config Config) *harness {
	t.Helper()
	h := &harness{t: t, k: NewKernelWithConfig(config)}
	f, err := h.k.CreateFederation(testFederation, testDocument())
	require.NoError(t, err)
	h.model = f.Model()
	return h
}

func (h *harness) request(fed hla.FederateHandle, op wire.Op, args wire.Args) (wire.Result, error) {
	h.msgID++
	resp := h.k.Process(context.Background(), &wire.Request{
		Type:       wire.MessageTypeRequest,
		MessageID:  h.msgID,
		Operation:  op,
		Version:    version.Current,
		Federation: testFederation,
		Federate:   fed,
		Args:       args,
	})
	if resp.Error != nil {
		return wire.Result{}, resp.Error.Err()
	}
	return resp.Result, nil
}

func (h *harness) ok(fed hla.FederateHandle, op wire.Op, args wire.Args) wire.Result {
	h.t.Helper()
	r, err := h.request(fed, op, args)
	require.NoError(h.t, err, "%s", op)
	return r
}

func (h *harness) join(fedType string) hla.FederateHandle {
	h.t.Helper()
	r := h.ok(0, wire.OpJoinFederationExecution, wire.Args{FederateType: fedType})
	require.NotZero(h.t, r.Federate)
	return r.Federate
}

// tick returns what fed may receive now without waiting.
func (h *harness) tick(fed hla.FederateHandle) []wire.Callback {
	h.t.Helper()
	return h.ok(fed, wire.OpTick, wire.Args{}).Callbacks
}

func (h *harness) objectClass(name string) hla.ObjectClassHandle {
	h.t.Helper()
	c, err := h.model.ObjectClassByName(name)
	require.NoError(h.t, err)
	return c.Handle
}

func (h *harness) attrs(class string, names ...string) []hla.AttributeHandle {
	h.t.Helper()
	c, err := h.model.ObjectClassByName(class)
	require.NoError(h.t, err)
	out := make([]hla.AttributeHandle, len(names))
	for i, n := range names {
		a, ok := c.AttributeByName(n)
		require.True(h.t, ok, n)
		out[i] = a.Handle
	}
	return out
}

func (h *harness) interaction(name string) hla.InteractionClassHandle {
	h.t.Helper()
	c, err := h.model.InteractionClassByName(name)
	require.NoError(h.t, err)
	return c.Handle
}

func (h *harness) param(class, name string) hla.ParameterHandle {
	h.t.Helper()
	p, err := h.model.ParameterHandle(h.interaction(class), name)
	require.NoError(h.t, err)
	return p
}

// register publishes class with attrs for fed and registers one object.
func (h *harness) register(fed hla.FederateHandle, class string, attrs ...string) hla.ObjectInstanceHandle {
	h.t.Helper()
	h.ok(fed, wire.OpPublishObjectClass, wire.Args{ObjectClass: h.objectClass(class), Attributes: h.attrs(class, attrs...)})
	return h.ok(fed, wire.OpRegisterObjectInstance, wire.Args{ObjectClass: h.objectClass(class)}).Object
}

func (h *harness) subscribe(fed hla.FederateHandle, class string, attrs ...string) {
	h.t.Helper()
	h.ok(fed, wire.OpSubscribeObjectClassAttributes, wire.Args{
		ObjectClass: h.objectClass(class),
		Attributes:  h.attrs(class, attrs...),
		Active:      true,
	})
}

func at(t float64) *fedtime.Time {
	v := fedtime.Time(t)
	return &v
}

func kinds(cbs []wire.Callback) []wire.CallbackKind {
	out := make([]wire.CallbackKind, len(cbs))
	for i, cb := range cbs {
		out[i] = cb.Kind
	}
	return out
}

func find(cbs []wire.Callback, kind wire.CallbackKind) *wire.Callback {
	for i := range cbs {
		if cbs[i].Kind == kind {
			return &cbs[i]
		}
	}
	return nil
}
