package academic

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/alama/core"
)

// Registry hands out one Coordinator per student, creating it on first use.
// Coordinators are long-lived; the registry is safe for concurrent use.
type Registry struct {
	repo   Repository
	cache  Cache
	probe  Prober
	logger core.Logger
	conf   core.SyncConfig

	mu    sync.Mutex
	coord map[uuid.UUID]*Coordinator
}

func NewRegistry(repo Repository, cache Cache, probe Prober, logger core.Logger, conf core.SyncConfig) *Registry {
	return &Registry{
		repo:   repo,
		cache:  cache,
		probe:  probe,
		logger: logger,
		conf:   conf,
		coord:  make(map[uuid.UUID]*Coordinator),
	}
}

// Coordinator returns the student's coordinator, creating it if needed.
func (r *Registry) Coordinator(studentID uuid.UUID) *Coordinator {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.coord[studentID]; ok {
		return c
	}
	c := NewCoordinator(studentID, r.repo, r.cache, r.probe, r.logger, r.conf)
	r.coord[studentID] = c
	return c
}
