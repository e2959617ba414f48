package memory

import (
	"time"

	"empathy-chat-be/pkg/rag/trace"

	"github.com/patrickmn/go-cache"
)

// TraceRepository keeps the latest pipeline trace per session in memory.
// Traces are debug material only, so cache eviction losing one is fine.
type TraceRepository struct {
	cache *cache.Cache
}

func NewTraceRepository() *TraceRepository {
	// Default expiration of 1 hour, purge expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &TraceRepository{
		cache: c,
	}
}

func (r *TraceRepository) Save(tr *trace.Trace) {
	r.cache.Set(tr.SessionId, tr, cache.DefaultExpiration)
}

func (r *TraceRepository) Get(sessionId string) (*trace.Trace, bool) {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*trace.Trace), true
	}
	return nil, false
}

func (r *TraceRepository) Delete(sessionId string) {
	r.cache.Delete(sessionId)
}
