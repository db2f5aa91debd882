package pipeline

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// jobStore is the job arena: non-terminal jobs indexed by id and by intent
// fingerprint, and a cache of retired jobs kept for the retention period.
type jobStore struct {
	mu            sync.Mutex
	byID          map[string]*Job
	byFingerprint map[string]*Job
	retired       *cache.Cache
}

func newJobStore(retention time.Duration) *jobStore {
	return &jobStore{
		byID:          make(map[string]*Job),
		byFingerprint: make(map[string]*Job),
		retired:       cache.New(retention, retention/2),
	}
}

// getOrCreate returns the in-flight job of fingerprint, or registers the job
// built by create. The bool reports whether a new job was registered.
func (s *jobStore) getOrCreate(fingerprint string, create func() *Job) (*Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.byFingerprint[fingerprint]; ok {
		return job, false
	}
	job := create()
	s.byID[job.ID] = job
	s.byFingerprint[fingerprint] = job
	return job, true
}

func (s *jobStore) inFlight(fingerprint string) (*Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.byFingerprint[fingerprint]
	return job, ok
}

func (s *jobStore) get(id string) (*Job, bool) {
	s.mu.Lock()
	job, ok := s.byID[id]
	s.mu.Unlock()
	if ok {
		return job, true
	}
	if cached, found := s.retired.Get(id); found {
		return cached.(*Job), true
	}
	return nil, false
}

// retire moves a finished job out of the in-flight indexes.
func (s *jobStore) retire(job *Job) {
	s.retired.Set(job.ID, job, cache.DefaultExpiration)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, job.ID)
	if current, ok := s.byFingerprint[job.fingerprint]; ok && current == job {
		delete(s.byFingerprint, job.fingerprint)
	}
}

func (s *jobStore) inFlightCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
