package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/ddm"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/object"
	"github.com/openlvc/portico-sub003/pkg/timemgmt"
)

func sampleState() *FederationState {
	return &FederationState{
		Label:      "checkpoint-1",
		Federation: "Gateway",
		FOMDigest:  "abc123",
		Federates: []FederateState{
			{Handle: 2, Name: "tracker", Type: "Tracker", Time: timemgmt.Status{Regulating: timemgmt.On, Current: 10, Lookahead: 1}},
			{Handle: 1, Name: "radar", Type: "Radar", MOMObject: 1},
		},
		Objects: []object.Snapshot{{
			Handle:     3,
			Name:       "HLAobject_3",
			Class:      4,
			Registrant: 1,
			Attributes: []object.AttributeSnapshot{{Handle: 5, Owner: 1}},
		}},
		Regions: []ddm.Snapshot{{Handle: 1, Space: 1, Owner: 2, Extents: []ddm.Extent{{1: {Lower: 0, Upper: 10}}}}},
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(sampleState()))

	got, err := store.Load("Gateway", "checkpoint-1")
	require.NoError(t, err)

	assert.Equal(t, StateVersion, got.Version)
	assert.False(t, got.SavedAt.IsZero())
	assert.Equal(t, "abc123", got.FOMDigest)
	require.Len(t, got.Federates, 2)
	assert.Equal(t, timemgmt.On, got.Federates[0].Time.Regulating)
	assert.EqualValues(t, 10, got.Federates[0].Time.Current)
	require.Len(t, got.Objects, 1)
	assert.Equal(t, "HLAobject_3", got.Objects[0].Name)
	require.Len(t, got.Regions, 1)
	assert.Equal(t, sampleState().Regions[0].Extents, got.Regions[0].Extents)
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load("Gateway", "nope")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestStoreRejectsPathLabels(t *testing.T) {
	store := NewStore(t.TempDir())

	for _, label := range []string{"", "..", "a/b", `a\b`} {
		state := sampleState()
		state.Label = label
		assert.ErrorIs(t, store.Save(state), ErrInvalidLabel, "label %q", label)
	}
}

func TestStoreListAndDelete(t *testing.T) {
	store := NewStore(t.TempDir())

	for _, label := range []string{"b", "a"} {
		s := sampleState()
		s.Label = label
		require.NoError(t, store.Save(s))
	}

	labels, err := store.List("Gateway")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, labels)

	require.NoError(t, store.Delete("Gateway", "a"))
	require.NoError(t, store.Delete("Gateway", "a"))

	labels, err = store.List("Gateway")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, labels)

	labels, err = store.List("Unknown")
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestStoreVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Gateway"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Gateway", "old.json"), []byte(`{"version": 99}`), 0644))

	_, err := store.Load("Gateway", "old")
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestRosterSorted(t *testing.T) {
	assert.Equal(t, []hla.FederateHandle{1, 2}, sampleState().Roster())
}
