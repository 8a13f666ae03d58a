package database

import (
	"sync"
)

// CachedRepository wraps Repository with a text hash -> report ID cache.
// Re-analyzing the same text skips the insert round trip.
type CachedRepository struct {
	*Repository

	hashCache   map[string]int64
	hashCacheMu sync.RWMutex
}

// NewCachedRepository creates a new cached repository
func NewCachedRepository(repo *Repository) *CachedRepository {
	return &CachedRepository{
		Repository: repo,
		hashCache:  make(map[string]int64),
	}
}

// SaveReport stores a report, answering repeated texts from the cache
func (r *CachedRepository) SaveReport(report *Report) (*Report, bool, error) {
	r.hashCacheMu.RLock()
	id, ok := r.hashCache[report.TextHash]
	r.hashCacheMu.RUnlock()

	if ok {
		existing, err := r.Repository.GetReportByID(id)
		if err == nil {
			return existing, false, nil
		}
		if !IsNotFound(err) {
			return nil, false, err
		}
		// Deleted behind our back, fall through and store it again
		r.forget(report.TextHash)
	}

	stored, created, err := r.Repository.SaveReport(report)
	if err != nil {
		return nil, false, err
	}

	r.hashCacheMu.Lock()
	r.hashCache[stored.TextHash] = stored.ID
	r.hashCacheMu.Unlock()

	return stored, created, nil
}

// DeleteReport removes a report and drops it from the cache
func (r *CachedRepository) DeleteReport(id int64) error {
	if err := r.Repository.DeleteReport(id); err != nil {
		return err
	}

	r.hashCacheMu.Lock()
	for hash, cached := range r.hashCache {
		if cached == id {
			delete(r.hashCache, hash)
		}
	}
	r.hashCacheMu.Unlock()

	return nil
}

func (r *CachedRepository) forget(hash string) {
	r.hashCacheMu.Lock()
	delete(r.hashCache, hash)
	r.hashCacheMu.Unlock()
}

// ClearCache clears the cache
func (r *CachedRepository) ClearCache() {
	r.hashCacheMu.Lock()
	r.hashCache = make(map[string]int64)
	r.hashCacheMu.Unlock()
}

// CacheSize returns the number of cached hashes
func (r *CachedRepository) CacheSize() int {
	r.hashCacheMu.RLock()
	defer r.hashCacheMu.RUnlock()
	return len(r.hashCache)
}
