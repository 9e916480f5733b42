package pipeline

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// ModelProvider hands out a fitted Model. Callers do not know whether the
// model was trained for them or reused.
type ModelProvider interface {
	Model() (*Model, error)
}

// FreshProvider trains a new model on every call.
type FreshProvider struct {
	trainer *Trainer
}

func NewFreshProvider(trainer *Trainer) *FreshProvider {
	return &FreshProvider{trainer: trainer}
}

func (p *FreshProvider) Model() (*Model, error) {
	return p.trainer.Train()
}

// CachedProvider trains once and reuses the result. Concurrent first callers
// share a single training run. Failures are not cached.
type CachedProvider struct {
	trainer *Trainer
	group   singleflight.Group

	mu    sync.RWMutex
	model *Model
}

func NewCachedProvider(trainer *Trainer) *CachedProvider {
	return &CachedProvider{trainer: trainer}
}

const cacheKey = "model"

func (p *CachedProvider) Model() (*Model, error) {
	p.mu.RLock()
	model := p.model
	p.mu.RUnlock()
	if model != nil {
		return model, nil
	}

	v, err, _ := p.group.Do(cacheKey, func() (interface{}, error) {
		p.mu.RLock()
		cached := p.model
		p.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		trained, err := p.trainer.Train()
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.model = trained
		p.mu.Unlock()
		return trained, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Model), nil
}

// Invalidate drops the cached model; the next call retrains.
func (p *CachedProvider) Invalidate() {
	p.mu.Lock()
	p.model = nil
	p.mu.Unlock()
	p.group.Forget(cacheKey)
}
