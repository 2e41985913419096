// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the resultstore.Manager interface. It is suitable for
// one-shot runs and tests, where results do not need to outlive the process.
//
// Results are kept in a B-tree ordered by (node ID, record ID), so all results
// of one node can be walked in record order.
package inmemorystore
