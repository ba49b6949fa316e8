// Package memory provides in-memory surveillance record stores used by unit
// tests and local development. Semantics mirror the postgres stores.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"vigirisco/internal/monitor"
	"vigirisco/pkg/platform/sentinel"
)

// RumorStore is the in-memory counterpart of the postgres rumor store.
type RumorStore struct {
	mu     sync.RWMutex
	nextID int64
	rumors map[int64]monitor.Rumor
}

func NewRumorStore() *RumorStore {
	return &RumorStore{nextID: 1, rumors: make(map[int64]monitor.Rumor)}
}

func (s *RumorStore) List(_ context.Context) ([]monitor.Rumor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]monitor.Rumor, 0, len(s.rumors))
	for _, r := range s.rumors {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CriadoEm.After(out[j].CriadoEm) })
	return out, nil
}

func (s *RumorStore) Get(_ context.Context, id int64) (*monitor.Rumor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rumors[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}

func (s *RumorStore) Create(_ context.Context, rumor *monitor.Rumor) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rumor.ID = s.nextID
	s.nextID++
	if rumor.CriadoEm.IsZero() {
		rumor.CriadoEm = time.Now()
	}
	rumor.IDU = monitor.NewIDU(rumor.CriadoEm, rumor.ID)
	s.rumors[rumor.ID] = *rumor
	return rumor.ID, nil
}

func (s *RumorStore) Update(_ context.Context, rumor *monitor.Rumor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rumors[rumor.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.rumors[rumor.ID] = *rumor
	return nil
}

func (s *RumorStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rumors[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.rumors, id)
	return nil
}

func (s *RumorStore) SetNivelRisco(_ context.Context, id int64, nivel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rumors[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	r.NivelRisco = nivel
	s.rumors[id] = r
	return nil
}

// CommunicationStore is the in-memory counterpart of the postgres
// communication store.
type CommunicationStore struct {
	mu     sync.RWMutex
	nextID int64
	comms  map[int64]monitor.Communication
}

func NewCommunicationStore() *CommunicationStore {
	return &CommunicationStore{nextID: 1, comms: make(map[int64]monitor.Communication)}
}

func (s *CommunicationStore) List(_ context.Context) ([]monitor.Communication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]monitor.Communication, 0, len(s.comms))
	for _, c := range s.comms {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CriadoEm.After(out[j].CriadoEm) })
	return out, nil
}

func (s *CommunicationStore) Get(_ context.Context, id int64) (*monitor.Communication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comms[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *CommunicationStore) Create(_ context.Context, comm *monitor.Communication) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comm.ID = s.nextID
	s.nextID++
	if comm.CriadoEm.IsZero() {
		comm.CriadoEm = time.Now()
	}
	s.comms[comm.ID] = *comm
	return comm.ID, nil
}

func (s *CommunicationStore) Update(_ context.Context, comm *monitor.Communication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comms[comm.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.comms[comm.ID] = *comm
	return nil
}

func (s *CommunicationStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comms[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.comms, id)
	return nil
}

// AssessmentStore is the in-memory counterpart of the postgres assessment
// store. Append-only like its table.
type AssessmentStore struct {
	mu          sync.RWMutex
	nextID      int64
	assessments []monitor.Assessment
}

func NewAssessmentStore() *AssessmentStore {
	return &AssessmentStore{nextID: 1}
}

func (s *AssessmentStore) Create(_ context.Context, assessment *monitor.Assessment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	assessment.ID = s.nextID
	s.nextID++
	if assessment.CriadoEm.IsZero() {
		assessment.CriadoEm = time.Now()
	}
	s.assessments = append(s.assessments, *assessment)
	return assessment.ID, nil
}

func (s *AssessmentStore) ListByRumor(_ context.Context, rumorID int64) ([]monitor.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []monitor.Assessment
	for i := len(s.assessments) - 1; i >= 0; i-- {
		if s.assessments[i].RumorID == rumorID {
			out = append(out, s.assessments[i])
		}
	}
	return out, nil
}
