// Package bic resolves the BIC of the bank holding an IBAN.
//
// The builder only knows the Resolver port; the adapters in this package
// (a YAML directory, the OpenIBAN web service, a chain and a cache) are wired
// by the container.
package bic

import (
	"context"
	"errors"
)

// Failure kinds reported by resolvers. Adapters wrap them with detail.
var (
	ErrInvalidIBAN           = errors.New("invalid IBAN")
	ErrBICNotFound           = errors.New("BIC not found")
	ErrResolutionUnavailable = errors.New("BIC resolution unavailable")
)

// Resolver returns the BIC of the institution servicing iban.
type Resolver interface {
	ResolveBIC(ctx context.Context, iban string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, iban string) (string, error)

// ResolveBIC calls f.
func (f ResolverFunc) ResolveBIC(ctx context.Context, iban string) (string, error) {
	return f(ctx, iban)
}

// Unavailable is a Resolver that always fails with ErrResolutionUnavailable.
var Unavailable Resolver = ResolverFunc(func(context.Context, string) (string, error) {
	return "", ErrResolutionUnavailable
})
