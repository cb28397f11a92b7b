package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/openlvc/portico-sub003/pkg/ambassador"
	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// tickWait is how long one tick waits for callbacks while the federate is
// waiting for the RTI.
const tickWait = 100 * time.Millisecond

// ReadyLabel is the synchronization point federates meet at before the
// first time step when peers are expected.
const ReadyLabel = "ReadyToRun"

// SampleDocument is the FOM used when no FOM file is given.
func SampleDocument() *fom.Document {
	return &fom.Document{
		Name: "SampleFOM",
		Objects: []fom.ObjectClassDoc{{
			Name: "Sample",
			Attributes: []fom.AttributeDoc{
				{Name: "counter", Order: "timestamp"},
				{Name: "label"},
			},
		}},
		Interactions: []fom.InteractionClassDoc{{
			Name:       "Ping",
			Order:      "timestamp",
			Parameters: []string{"count"},
		}},
	}
}

// Settings describe one run of the example federate.
type Settings struct {
	Federation  string
	FOM         string
	Name        string
	Type        string
	Class       string
	Interaction string
	Cycles      int
	Step        float64
	Lookahead   float64
	Peers       int
	Destroy     bool
	Timeout     time.Duration
}

// Report summarises a finished run.
type Report struct {
	Federate     hla.FederateHandle
	FinalTime    fedtime.Time
	Discovered   int
	Reflections  int
	Interactions int
	Destroyed    bool
}

// Federate is the example federate. It records the callbacks the run
// waits for.
type Federate struct {
	ambassador.NullFederateAmbassador

	rti      *ambassador.RTIAmbassador
	settings Settings
	logger   *slog.Logger

	mu           sync.Mutex
	regulating   bool
	constrained  bool
	granted      bool
	announced    bool
	synchronized bool
	now          fedtime.Time
	discovered   map[hla.ObjectInstanceHandle]string
	reflections  int
	interactions int
}

// NewFederate creates a federate on conn.
func NewFederate(conn ambassador.Connection, settings Settings, logger *slog.Logger) *Federate {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg := ambassador.DefaultConfig()
	cfg.Logger = logger
	return &Federate{
		rti:        ambassador.NewWithConfig(conn, cfg),
		settings:   settings,
		logger:     logger,
		discovered: make(map[hla.ObjectInstanceHandle]string),
	}
}

// --- Callbacks ---

func (f *Federate) AnnounceSynchronizationPoint(label string, _ []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if label == ReadyLabel {
		f.announced = true
	}
}

func (f *Federate) FederationSynchronized(label string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if label == ReadyLabel {
		f.synchronized = true
	}
}

func (f *Federate) DiscoverObjectInstance(obj hla.ObjectInstanceHandle, _ hla.ObjectClassHandle, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discovered[obj] = name
	f.logger.Info("discovered object", "object", obj, "name", name)
}

func (f *Federate) ReflectAttributeValues(obj hla.ObjectInstanceHandle, values hla.AttributeHandleValueMap, _ []byte, _ hla.OrderType, t *fedtime.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reflections++
	f.logger.Debug("reflection", "object", f.discovered[obj], "attributes", len(values), "time", t)
}

func (f *Federate) ReceiveInteraction(_ hla.InteractionClassHandle, params hla.ParameterHandleValueMap, _ []byte, _ hla.OrderType, t *fedtime.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interactions++
	f.logger.Debug("interaction", "parameters", len(params), "time", t)
}

func (f *Federate) RemoveObjectInstance(obj hla.ObjectInstanceHandle, _ []byte, _ hla.OrderType, _ *fedtime.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logger.Info("object removed", "name", f.discovered[obj])
}

func (f *Federate) TimeRegulationEnabled(t fedtime.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regulating = true
	f.now = t
}

func (f *Federate) TimeConstrainedEnabled(t fedtime.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constrained = true
	f.now = t
}

func (f *Federate) TimeAdvanceGrant(t fedtime.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.granted = true
	f.now = t
}

// --- Run ---

func (f *Federate) flag(p *bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *p
}

// waitFor ticks until cond holds or the run times out.
func (f *Federate) waitFor(ctx context.Context, what string, cond func() bool) error {
	ctx, cancel := context.WithTimeout(ctx, f.settings.Timeout)
	defer cancel()
	for !cond() {
		if ctx.Err() != nil {
			return fmt.Errorf("timed out waiting for %s", what)
		}
		if _, err := f.rti.TickFor(ctx, tickWait); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("timed out waiting for %s", what)
			}
			return err
		}
	}
	return nil
}

func (f *Federate) createFederation(ctx context.Context) error {
	var err error
	if f.settings.FOM != "" {
		err = f.rti.CreateFederationExecution(ctx, f.settings.Federation, f.settings.FOM)
	} else {
		err = f.rti.CreateFederationExecutionFromDocument(ctx, f.settings.Federation, SampleDocument())
	}
	if errors.Is(err, rtierr.FederationExecutionAlreadyExists) {
		f.logger.Info("joining existing federation", "federation", f.settings.Federation)
		return nil
	}
	if err == nil {
		f.logger.Info("created federation", "federation", f.settings.Federation)
	}
	return err
}

// Run creates or joins the federation, runs the configured time steps and
// resigns.
func (f *Federate) Run(ctx context.Context) (Report, error) {
	var report Report
	s := f.settings

	if err := f.createFederation(ctx); err != nil {
		return report, fmt.Errorf("create federation: %w", err)
	}
	handle, err := f.rti.JoinFederationExecutionNamed(ctx, s.Name, s.Type, s.Federation, f)
	if err != nil {
		return report, fmt.Errorf("join: %w", err)
	}
	report.Federate = handle
	f.logger.Info("joined federation", "federation", s.Federation, "federate", handle, "name", s.Name)

	model := f.rti.Model()
	class, err := model.ObjectClassByName(s.Class)
	if err != nil {
		return report, err
	}
	attrs := class.AttributeHandles()
	ic, err := model.InteractionClassByName(s.Interaction)
	if err != nil {
		return report, err
	}

	if err := f.rti.PublishObjectClass(ctx, class.Handle, attrs); err != nil {
		return report, err
	}
	if err := f.rti.SubscribeObjectClassAttributes(ctx, class.Handle, attrs, true); err != nil {
		return report, err
	}
	if err := f.rti.PublishInteractionClass(ctx, ic.Handle); err != nil {
		return report, err
	}
	if err := f.rti.SubscribeInteractionClass(ctx, ic.Handle, true); err != nil {
		return report, err
	}

	if err := f.rti.EnableTimeRegulation(ctx, fedtime.Interval(s.Lookahead)); err != nil {
		return report, err
	}
	if err := f.waitFor(ctx, "time regulation", func() bool { return f.flag(&f.regulating) }); err != nil {
		return report, err
	}
	if err := f.rti.EnableTimeConstrained(ctx); err != nil {
		return report, err
	}
	if err := f.waitFor(ctx, "time constraint", func() bool { return f.flag(&f.constrained) }); err != nil {
		return report, err
	}

	obj, err := f.rti.RegisterObjectInstance(ctx, class.Handle, s.Name)
	if err != nil {
		return report, err
	}

	if s.Peers > 0 {
		if err := f.waitForPeers(ctx); err != nil {
			return report, err
		}
	}

	for cycle := 1; cycle <= s.Cycles; cycle++ {
		if err := f.step(ctx, cycle, obj, class, ic); err != nil {
			return report, fmt.Errorf("cycle %d: %w", cycle, err)
		}
	}

	if err := f.rti.DeleteObjectInstance(ctx, obj, nil); err != nil {
		return report, err
	}
	if err := f.rti.ResignFederationExecution(ctx, hla.DeleteObjectsAndReleaseAttributes); err != nil {
		return report, fmt.Errorf("resign: %w", err)
	}
	f.logger.Info("resigned", "federation", s.Federation)

	if s.Destroy {
		err := f.rti.DestroyFederationExecution(ctx, s.Federation)
		switch {
		case err == nil:
			report.Destroyed = true
			f.logger.Info("destroyed federation", "federation", s.Federation)
		case errors.Is(err, rtierr.FederatesCurrentlyJoined), errors.Is(err, rtierr.FederationExecutionDoesNotExist):
			f.logger.Info("federation left to remaining federates", "federation", s.Federation)
		default:
			return report, fmt.Errorf("destroy: %w", err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	report.FinalTime = f.now
	report.Discovered = len(f.discovered)
	report.Reflections = f.reflections
	report.Interactions = f.interactions
	return report, nil
}

// waitForPeers meets the other federates at the ready point once the
// objects of all peers are discovered. Every federate registers the point;
// registrations after the first fail and are ignored.
func (f *Federate) waitForPeers(ctx context.Context) error {
	if err := f.rti.RegisterFederationSynchronizationPoint(ctx, ReadyLabel, nil); err != nil {
		return err
	}
	if err := f.waitFor(ctx, "ready announcement", func() bool { return f.flag(&f.announced) }); err != nil {
		return err
	}
	f.logger.Info("waiting for peers", "peers", f.settings.Peers)
	if err := f.waitFor(ctx, "peers to join", func() bool { return f.joinedPeers() >= f.settings.Peers }); err != nil {
		return err
	}
	if err := f.rti.SynchronizationPointAchieved(ctx, ReadyLabel); err != nil {
		return err
	}
	return f.waitFor(ctx, "federation synchronized", func() bool { return f.flag(&f.synchronized) })
}

// joinedPeers counts the peer objects discovered so far.
func (f *Federate) joinedPeers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.discovered)
}

func (f *Federate) step(ctx context.Context, cycle int, obj hla.ObjectInstanceHandle, class *fom.ObjectClass, ic *fom.InteractionClass) error {
	s := f.settings

	f.mu.Lock()
	now := f.now
	f.granted = false
	f.mu.Unlock()

	stamp := now.Add(fedtime.Interval(s.Lookahead))
	values := hla.AttributeHandleValueMap{}
	if a, ok := class.AttributeByName("counter"); ok {
		values.Add(a.Handle, []byte(strconv.Itoa(cycle)))
	}
	if a, ok := class.AttributeByName("label"); ok {
		values.Add(a.Handle, []byte(s.Name))
	}
	if err := f.rti.UpdateAttributeValuesWithTime(ctx, obj, values, []byte(s.Name), stamp); err != nil {
		return err
	}

	params := hla.ParameterHandleValueMap{}
	if p, ok := ic.ParameterByName("count"); ok {
		params.Add(p.Handle, []byte(strconv.Itoa(cycle)))
	}
	if err := f.rti.SendInteractionWithTime(ctx, ic.Handle, params, []byte(s.Name), stamp); err != nil {
		return err
	}

	target := now.Add(fedtime.Interval(s.Step))
	if err := f.rti.TimeAdvanceRequest(ctx, target); err != nil {
		return err
	}
	if err := f.waitFor(ctx, "time advance to "+target.String(), func() bool { return f.flag(&f.granted) }); err != nil {
		return err
	}
	f.logger.Info("advanced", "cycle", cycle, "time", target)
	return nil
}

// loadFOMName returns the display name of the FOM a run uses.
func loadFOMName(s Settings) (string, error) {
	if s.FOM == "" {
		return SampleDocument().Name, nil
	}
	data, err := os.ReadFile(s.FOM)
	if err != nil {
		return "", err
	}
	doc, err := fom.ParseDocument(data)
	if err != nil {
		return "", err
	}
	return doc.Name, nil
}
