// Package registry provides the central "glue" between definition nodes and
// the executable nodes that evaluate them.
//
// The Registry maps each definition node type (e.g., *node.Aggregation) to a
// factory building the matching online node from the definition, its compiled
// parents and a result store. The compiler looks factories up by the dynamic
// type of each definition it lowers.
//
// New node kinds are added by pairing a definition type with a factory and
// registering it, usually from a Module; the compiler and the evaluation core
// need no change.
package registry
