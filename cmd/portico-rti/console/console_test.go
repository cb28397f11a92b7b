package console

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/persistence"
	"github.com/openlvc/portico-sub003/pkg/rti"
	"github.com/openlvc/portico-sub003/pkg/version"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

func newKernel(t *testing.T, store *persistence.Store) *rti.Kernel {
	t.Helper()
	cfg := rti.DefaultConfig()
	cfg.Store = store
	k := rti.NewKernelWithConfig(cfg)
	_, err := k.CreateFederation("Exercise", &fom.Document{
		Name:    "ConsoleFOM",
		Objects: []fom.ObjectClassDoc{{Name: "Tank", Attributes: []fom.AttributeDoc{{Name: "position"}}}},
	})
	require.NoError(t, err)

	resp := k.Process(context.Background(), &wire.Request{
		Type:       wire.MessageTypeRequest,
		MessageID:  1,
		Operation:  wire.OpJoinFederationExecution,
		Version:    version.Current,
		Federation: "Exercise",
		Args:       wire.Args{FederateType: "tank", Name: "tank-1"},
	})
	require.NoError(t, resp.Err())
	return k
}

func run(k *rti.Kernel, line string) (string, bool) {
	var buf bytes.Buffer
	more := Execute(k, &buf, line)
	return buf.String(), more
}

func TestFederations(t *testing.T) {
	out, more := run(newKernel(t, nil), "federations")
	assert.True(t, more)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Exercise")
	assert.Contains(t, out, "ConsoleFOM")
	assert.Contains(t, out, "running")

	out, _ = run(rti.NewKernel(), "federations")
	assert.Contains(t, out, "No federation executions")
}

func TestFederates(t *testing.T) {
	k := newKernel(t, nil)

	out, _ := run(k, "federates Exercise")
	assert.Contains(t, out, "tank-1")
	assert.Contains(t, out, "tank")

	out, _ = run(k, "federates Missing")
	assert.Contains(t, out, `No federation execution named "Missing"`)

	out, _ = run(k, "federates")
	assert.Contains(t, out, "Usage:")
}

func TestLBTS(t *testing.T) {
	out, _ := run(newKernel(t, nil), "LBTS Exercise")
	assert.Contains(t, out, "Federation LBTS:")
	assert.Contains(t, out, "LOOKAHEAD")
	assert.Contains(t, out, "tank-1")
}

func TestSaves(t *testing.T) {
	out, _ := run(newKernel(t, nil), "saves Exercise")
	assert.Contains(t, out, "No save directory configured")

	store := persistence.NewStore(t.TempDir())
	k := newKernel(t, store)
	out, _ = run(k, "saves Exercise")
	assert.Contains(t, out, "No saves for Exercise")

	require.NoError(t, store.Save(&persistence.FederationState{Label: "checkpoint-1", Federation: "Exercise"}))
	out, _ = run(k, "saves Exercise")
	assert.Contains(t, out, "checkpoint-1")
}

func TestQuitAndUnknown(t *testing.T) {
	k := rti.NewKernel()
	for _, line := range []string{"quit", "exit", "q", "  QUIT  "} {
		_, more := run(k, line)
		assert.False(t, more, line)
	}

	out, more := run(k, "bogus")
	assert.True(t, more)
	assert.Contains(t, out, "Unknown command: bogus")

	out, more = run(k, "   ")
	assert.True(t, more)
	assert.Empty(t, out)

	out, _ = run(k, "help")
	assert.Contains(t, out, "federates <fed>")
}
