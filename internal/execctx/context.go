// Package execctx holds the immutable execution context handed to every
// embedding and every node evaluation.
//
// The context replaces ambient state such as the wall clock: evaluating the
// same records with the same Context always yields the same vectors.
package execctx

import (
	"maps"
	"time"
)

// Environment tells nodes whether they run while indexing records or while
// answering a query.
type Environment int

const (
	// Online is the indexing environment.
	Online Environment = iota
	// Query is the query-time environment.
	Query
)

// String implements fmt.Stringer.
func (e Environment) String() string {
	if e == Query {
		return "query"
	}
	return "online"
}

// Context is an immutable value. The zero value is an Online context whose
// clock reads the zero time.
type Context struct {
	now         time.Time
	environment Environment
	flags       map[string]string
}

// Option configures a Context in New.
type Option func(*Context)

// WithNow pins the context clock.
func WithNow(now time.Time) Option {
	return func(c *Context) { c.now = now }
}

// WithEnvironment sets the environment.
func WithEnvironment(env Environment) Option {
	return func(c *Context) { c.environment = env }
}

// WithFlag sets a runtime flag.
func WithFlag(key, value string) Option {
	return func(c *Context) {
		if c.flags == nil {
			c.flags = make(map[string]string)
		}
		c.flags[key] = value
	}
}

// New creates a Context. Without WithNow the clock is read once, here.
func New(opts ...Option) Context {
	c := Context{now: time.Now()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Now returns the pinned clock value.
func (c Context) Now() time.Time {
	return c.now
}

// Environment returns the evaluation environment.
func (c Context) Environment() Environment {
	return c.environment
}

// IsQuery reports whether the context is a query context.
func (c Context) IsQuery() bool {
	return c.environment == Query
}

// Flag returns a runtime flag.
func (c Context) Flag(key string) (string, bool) {
	v, ok := c.flags[key]
	return v, ok
}

// With returns a copy of c with opts applied; c itself is unchanged.
func (c Context) With(opts ...Option) Context {
	next := Context{now: c.now, environment: c.environment, flags: maps.Clone(c.flags)}
	for _, opt := range opts {
		opt(&next)
	}
	return next
}
