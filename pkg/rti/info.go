package rti

import (
	"time"

	"github.com/openlvc/portico-sub003/pkg/hla"
)

// FederationInfo is a point-in-time view of a federation execution.
type FederationInfo struct {
	Name        string          `json:"name"`
	ExecutionID string          `json:"executionId"`
	FOM         string          `json:"fom"`
	Created     time.Time       `json:"created"`
	LBTS        string          `json:"lbts"`
	Objects     int             `json:"objects"`
	Federates   []FederateInfo  `json:"federates"`
	SyncPoints  []SyncPointInfo `json:"syncPoints,omitempty"`
	Save        string          `json:"save,omitempty"`
	Restore     string          `json:"restore,omitempty"`
}

// FederateInfo is a point-in-time view of one joined federate. Times are
// rendered as strings because they may be infinite.
type FederateInfo struct {
	Handle       hla.FederateHandle `json:"handle"`
	Name         string             `json:"name"`
	Type         string             `json:"type"`
	JoinedAt     time.Time          `json:"joinedAt"`
	Regulating   string             `json:"regulating"`
	Constrained  string             `json:"constrained"`
	Advancing    string             `json:"advancing"`
	Time         string             `json:"time"`
	Requested    string             `json:"requested,omitempty"`
	Lookahead    string             `json:"lookahead"`
	LBTS         string             `json:"lbts"`
	QueuedRO     int                `json:"queuedRO"`
	QueuedTSO    int                `json:"queuedTSO"`
	Asynchronous bool               `json:"asynchronous,omitempty"`
}

// SyncPointInfo describes an outstanding synchronization point.
type SyncPointInfo struct {
	Label   string               `json:"label"`
	Waiting []hla.FederateHandle `json:"waiting"`
}

// Info returns a view of the federation.
func (f *Federation) Info() FederationInfo {
	f.mu.Lock()
	defer f.mu.Unlock()

	info := FederationInfo{
		Name:        f.name,
		ExecutionID: f.executionID,
		FOM:         f.model.Name,
		Created:     f.created,
		LBTS:        f.time.FederationLBTS().String(),
		Objects:     f.objects.Len(),
		Federates:   make([]FederateInfo, 0, len(f.members)),
	}
	for _, h := range f.memberHandles() {
		info.Federates = append(info.Federates, f.federateInfo(f.members[h]))
	}
	for _, p := range f.syncs.Outstanding() {
		info.SyncPoints = append(info.SyncPoints, SyncPointInfo{Label: p.Label, Waiting: p.Waiting()})
	}
	if f.save != nil {
		info.Save = f.save.label
	}
	if f.restore != nil {
		info.Restore = f.restore.label
	}
	return info
}

func (f *Federation) federateInfo(m *member) FederateInfo {
	s, _ := f.time.Status(m.handle)
	fi := FederateInfo{
		Handle:       m.handle,
		Name:         m.name,
		Type:         m.fedType,
		JoinedAt:     m.joinedAt,
		Regulating:   s.Regulating.String(),
		Constrained:  s.Constrained.String(),
		Advancing:    s.Advancing.String(),
		Time:         s.Current.String(),
		Lookahead:    s.Lookahead.String(),
		LBTS:         f.time.LBTS(m.handle).String(),
		QueuedRO:     m.queue.LenRO(),
		QueuedTSO:    m.queue.LenTSO(),
		Asynchronous: s.Asynchronous,
	}
	if s.IsAdvancing() {
		fi.Requested = s.Requested.String()
	}
	return fi
}

// Federate returns a view of one joined federate.
func (f *Federation) Federate(fed hla.FederateHandle) (FederateInfo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.members[fed]
	if !ok {
		return FederateInfo{}, false
	}
	return f.federateInfo(m), true
}

// Federations returns a view of every federation execution, sorted by name.
func (k *Kernel) Federations() []FederationInfo {
	var out []FederationInfo
	for _, name := range k.FederationNames() {
		if f, ok := k.Federation(name); ok {
			out = append(out, f.Info())
		}
	}
	return out
}
