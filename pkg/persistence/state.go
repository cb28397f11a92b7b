package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/openlvc/portico-sub003/pkg/ddm"
	"github.com/openlvc/portico-sub003/pkg/declaration"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/object"
	"github.com/openlvc/portico-sub003/pkg/ownership"
	"github.com/openlvc/portico-sub003/pkg/timemgmt"
)

// StateVersion is the current version of the snapshot file format.
const StateVersion = 1

// Snapshot store errors.
var (
	// ErrSnapshotNotFound indicates no snapshot exists for a label.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrInvalidLabel indicates a label that cannot name a file.
	ErrInvalidLabel = errors.New("invalid save label")

	// ErrVersionMismatch indicates a snapshot written by another format version.
	ErrVersionMismatch = errors.New("snapshot format version mismatch")
)

// FederationState is the saved state of one federation execution.
type FederationState struct {
	// Version is the snapshot file format version.
	Version int `json:"version"`

	// SavedAt is when the snapshot was written.
	SavedAt time.Time `json:"saved_at"`

	Label      string `json:"label"`
	Federation string `json:"federation"`

	// FOMDigest identifies the FOM the federation was created with.
	FOMDigest string `json:"fom_digest"`

	Federates    []FederateState      `json:"federates"`
	Objects      []object.Snapshot    `json:"objects,omitempty"`
	Declarations declaration.Snapshot `json:"declarations"`
	Ownership    ownership.Snapshot   `json:"ownership"`
	Regions      []ddm.Snapshot       `json:"regions,omitempty"`
}

// FederateState is one roster entry of a snapshot.
type FederateState struct {
	Handle hla.FederateHandle `json:"handle"`
	Name   string             `json:"name"`
	Type   string             `json:"type"`
	Time   timemgmt.Status    `json:"time"`

	// MOMObject is the management object registered for the federate.
	MOMObject hla.ObjectInstanceHandle `json:"mom_object,omitempty"`
}

// Roster returns the federate handles of the snapshot in ascending order.
func (s *FederationState) Roster() []hla.FederateHandle {
	out := make([]hla.FederateHandle, 0, len(s.Federates))
	for _, f := range s.Federates {
		out = append(out, f.Handle)
	}
	slices.Sort(out)
	return out
}

// Store keeps snapshots as JSON files under a directory, one subdirectory
// per federation.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates a snapshot store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store root.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(federation, label string) (string, error) {
	for _, part := range []string{federation, label} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("%w: %q", ErrInvalidLabel, part)
		}
	}
	return filepath.Join(s.dir, federation, label+".json"), nil
}

// Save writes the snapshot, replacing any earlier one with the same label.
func (s *Store) Save(state *FederationState) error {
	path, err := s.path(state.Federation, state.Label)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	// Write then rename so a crash never leaves a half-written snapshot.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads the snapshot saved under label.
func (s *Store) Load(federation, label string) (*FederationState, error) {
	path, err := s.path(federation, label)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s/%s", ErrSnapshotNotFound, federation, label)
	}
	if err != nil {
		return nil, err
	}

	state := &FederationState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if state.Version != StateVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersionMismatch, state.Version)
	}
	return state, nil
}

// List returns the labels saved for a federation, sorted.
func (s *Store) List(federation string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(filepath.Join(s.dir, federation))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var labels []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasSuffix(name, ".json") {
			labels = append(labels, strings.TrimSuffix(name, ".json"))
		}
	}
	slices.Sort(labels)
	return labels, nil
}

// Delete removes a snapshot. Deleting a missing snapshot is not an error.
func (s *Store) Delete(federation, label string) error {
	path, err := s.path(federation, label)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
