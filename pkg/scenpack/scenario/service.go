package scenario

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound indicates a scenario id unknown to the service.
var ErrNotFound = errors.New("scenario not found")

// Service loads existing scenarios and creates new ones. The workbook
// import flow uses it to resolve MAIN columns; implementations may talk to
// a remote engine or to local storage.
type Service interface {
	// Load returns the scenario with the given id.
	Load(ctx context.Context, id int) (*Scenario, error)
	// Create makes a fresh scenario for an area and end year.
	Create(ctx context.Context, area string, endYear int) (*Scenario, error)
}

// MemoryService is an in-process Service backed by a map. It serves tests
// and the offline CLI.
type MemoryService struct {
	mu     sync.Mutex
	byID   map[int]*Scenario
	nextID int
}

// NewMemoryService creates an empty in-memory service. Created scenarios
// receive ids from 1 upward, above any registered id.
func NewMemoryService(existing ...*Scenario) *MemoryService {
	svc := &MemoryService{byID: make(map[int]*Scenario), nextID: 1}
	for _, s := range existing {
		svc.Register(s)
	}
	return svc
}

// Register makes a scenario loadable by id.
func (m *MemoryService) Register(s *Scenario) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[s.ID] = s
	if s.ID >= m.nextID {
		m.nextID = s.ID + 1
	}
}

// Load implements Service.
func (m *MemoryService) Load(_ context.Context, id int) (*Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return s, nil
}

// Create implements Service.
func (m *MemoryService) Create(_ context.Context, area string, endYear int) (*Scenario, error) {
	if area == "" || endYear == 0 {
		return nil, errors.New("create requires an area code and end year")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := New(m.nextID)
	m.nextID++
	s.AreaCode = area
	s.EndYear = endYear
	m.byID[s.ID] = s
	return s, nil
}

// All returns the registered scenarios sorted by id.
func (m *MemoryService) All() []*Scenario {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Scenario, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
