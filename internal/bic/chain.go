package bic

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fjacquet/pain001/internal/validation"
)

// Chain tries each resolver in order and returns the first BIC found.
type Chain []Resolver

// ResolveBIC implements Resolver. When every resolver fails the errors are
// joined, so errors.Is matches any of the failure kinds.
func (c Chain) ResolveBIC(ctx context.Context, iban string) (string, error) {
	if len(c) == 0 {
		return "", ErrResolutionUnavailable
	}
	var errs []error
	for _, r := range c {
		if r == nil {
			continue
		}
		bic, err := r.ResolveBIC(ctx, iban)
		if err == nil {
			return bic, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", ErrResolutionUnavailable
	}
	return "", fmt.Errorf("all resolvers failed: %w", errors.Join(errs...))
}

// Cache memoizes successful resolutions of the wrapped resolver. Failures are
// not cached. It is safe for concurrent use.
type Cache struct {
	next Resolver

	mu      sync.RWMutex
	entries map[string]string
}

// NewCache wraps next.
func NewCache(next Resolver) *Cache {
	return &Cache{next: next, entries: make(map[string]string)}
}

// ResolveBIC implements Resolver.
func (c *Cache) ResolveBIC(ctx context.Context, iban string) (string, error) {
	key := validation.NormalizeIBAN(iban)

	c.mu.RLock()
	bic, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return bic, nil
	}

	bic, err := c.next.ResolveBIC(ctx, iban)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[key] = bic
	c.mu.Unlock()
	return bic, nil
}

// Len returns the number of cached resolutions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
