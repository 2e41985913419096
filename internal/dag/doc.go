// Package dag provides a small, concurrency-safe directed graph keyed by
// string IDs. The builder uses it to order the embeddings of a graph
// definition that reference each other and to reject reference cycles
// before any definition node is constructed.
package dag
