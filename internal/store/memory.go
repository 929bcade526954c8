package store

import (
	"context"
	"sync"

	"github.com/ykvlv/routine-bot/internal/domain"
)

// Memory is an in-process Persistence, used by tests.
type Memory struct {
	mu    sync.Mutex
	snap    domain.Snapshot
	saves   int
	loadErr error
	saveErr error
}

// NewMemory returns an empty in-memory persistence.
func NewMemory() *Memory {
	return &Memory{snap: domain.Snapshot{}}
}

func (m *Memory) Load(_ context.Context) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.snap.Clone(), nil
}

func (m *Memory) Save(_ context.Context, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap.Clone()
	m.saves++
	return nil
}

func (m *Memory) Close() error { return nil }

// Saves reports how many snapshots were saved successfully.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Set replaces the stored snapshot.
func (m *Memory) Set(snap domain.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Clone()
}

// FailLoad makes subsequent Loads return err; nil restores normal behavior.
func (m *Memory) FailLoad(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailSave makes subsequent Saves return err; nil restores normal behavior.
func (m *Memory) FailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}
