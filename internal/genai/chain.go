package genai

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	// breakerThreshold is the number of consecutive fully-overloaded chain
	// attempts before the breaker opens.
	breakerThreshold = 3
	breakerCooldown  = time.Minute
)

// Chain tries providers in preference order. Only an overload signal moves
// the request to the next provider; every other failure is returned as-is so
// a timed-out call is never silently retried against a second provider.
// Repeated all-overloaded attempts open a breaker that fails fast until the
// cooldown elapses.
type Chain struct {
	providers []Provider

	mu        sync.Mutex
	overloads int
	openUntil time.Time
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Name() string {
	return "chain"
}

func (c *Chain) Complete(ctx context.Context, req Request) (*Completion, error) {
	if len(c.providers) == 0 {
		return nil, errors.New("no providers configured")
	}
	if c.breakerOpen() {
		return nil, ErrOverloaded
	}

	var lastErr error
	for _, provider := range c.providers {
		completion, err := provider.Complete(ctx, req)
		if err == nil {
			c.recordSuccess()
			return completion, nil
		}
		if !errors.Is(err, ErrOverloaded) {
			return nil, err
		}
		lastErr = err
	}

	c.recordOverload()
	return nil, lastErr
}

func (c *Chain) breakerOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().Before(c.openUntil)
}

func (c *Chain) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overloads = 0
}

func (c *Chain) recordOverload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overloads++
	if c.overloads >= breakerThreshold {
		c.openUntil = time.Now().Add(breakerCooldown)
		c.overloads = 0
	}
}
