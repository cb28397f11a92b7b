package syncpoint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

const (
	fedA hla.FederateHandle = 1
	fedB hla.FederateHandle = 2
	fedC hla.FederateHandle = 3
)

func joined() hla.FederateHandleSet {
	return hla.NewFederateHandleSet(fedA, fedB, fedC)
}

func TestRegisterTargetsEveryone(t *testing.T) {
	m := NewManager()
	p, err := m.Register(fedA, "ready", []byte("tag"), nil, joined())
	require.NoError(t, err)
	assert.True(t, p.Everyone)
	assert.Equal(t, []hla.FederateHandle{fedA, fedB, fedC}, p.Waiting())

	_, err = m.Register(fedB, "ready", nil, nil, joined())
	assert.ErrorIs(t, err, ErrLabelInUse)

	_, err = m.Register(fedB, "", nil, nil, joined())
	assert.ErrorIs(t, err, ErrEmptyLabel)
}

func TestRegisterRestrictedTargets(t *testing.T) {
	m := NewManager()
	p, err := m.Register(fedA, "onlyA", nil, hla.NewFederateHandleSet(fedA), joined())
	require.NoError(t, err)
	assert.False(t, p.Everyone)
	assert.Equal(t, []hla.FederateHandle{fedA}, p.Waiting())

	_, _, err = m.Achieve(fedB, "onlyA")
	assert.True(t, errors.Is(err, rtierr.SynchronizationPointLabelWasNotAnnounced))

	got, done, err := m.Achieve(fedA, "onlyA")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "onlyA", got.Label)

	_, ok := m.Get("onlyA")
	assert.False(t, ok, "label retired once synchronized")
}

func TestRegisterRejectsTargetsNotJoined(t *testing.T) {
	m := NewManager()
	_, err := m.Register(fedA, "ghost", nil, hla.NewFederateHandleSet(fedA, 99), joined())
	assert.ErrorIs(t, err, ErrUnknownTarget)

	_, ok := m.Get("ghost")
	assert.False(t, ok, "a rejected label is not reserved")

	p, err := m.Register(fedA, "ghost", nil, nil, joined())
	require.NoError(t, err)
	assert.True(t, p.Everyone)
}

func TestAchieveUntilSynchronized(t *testing.T) {
	m := NewManager()
	_, err := m.Register(fedA, "go", nil, nil, joined())
	require.NoError(t, err)

	for _, fed := range []hla.FederateHandle{fedA, fedB} {
		_, done, err := m.Achieve(fed, "go")
		require.NoError(t, err)
		assert.False(t, done)
	}
	p, _ := m.Get("go")
	assert.Equal(t, []hla.FederateHandle{fedC}, p.Waiting())

	_, done, err := m.Achieve(fedC, "go")
	require.NoError(t, err)
	assert.True(t, done)

	_, _, err = m.Achieve(fedA, "go")
	assert.Equal(t, rtierr.SynchronizationPointLabelWasNotAnnounced, rtierr.KindOf(err))

	_, err = m.Register(fedA, "go", nil, nil, joined())
	assert.NoError(t, err, "retired label can be reused")
}

func TestJoinAddsToEveryonePoints(t *testing.T) {
	m := NewManager()
	_, err := m.Register(fedA, "all", nil, nil, hla.NewFederateHandleSet(fedA))
	require.NoError(t, err)
	_, err = m.Register(fedA, "some", nil, hla.NewFederateHandleSet(fedA), hla.NewFederateHandleSet(fedA))
	require.NoError(t, err)

	announced := m.Join(fedB)
	require.Len(t, announced, 1)
	assert.Equal(t, "all", announced[0].Label)

	_, done, err := m.Achieve(fedA, "all")
	require.NoError(t, err)
	assert.False(t, done, "late joiner still has to achieve")
}

func TestRemoveCompletesPoints(t *testing.T) {
	m := NewManager()
	_, err := m.Register(fedA, "wait", nil, nil, joined())
	require.NoError(t, err)
	_, _, err = m.Achieve(fedA, "wait")
	require.NoError(t, err)
	_, _, err = m.Achieve(fedB, "wait")
	require.NoError(t, err)

	done := m.Remove(fedC)
	require.Len(t, done, 1)
	assert.Equal(t, "wait", done[0].Label)
	assert.Empty(t, m.Outstanding())
}

func TestRemoveLastTargetDropsPoint(t *testing.T) {
	m := NewManager()
	_, err := m.Register(fedA, "solo", nil, hla.NewFederateHandleSet(fedB), joined())
	require.NoError(t, err)

	assert.Empty(t, m.Remove(fedB))
	assert.Empty(t, m.Outstanding())
}
