/*
Package builder turns a format-agnostic graph definition (config.Model) into
definition nodes, one node.SchemaDag per index.

Construction is a multi-phase process:

 1. Schemas: every `schema` definition becomes a *schema.Schema.

 2. Embedding topology: every embedding becomes a vertex of a `dag.Graph` and
    every `source` reference an edge. Cycle detection runs before any node is
    created, so custom embeddings chained through `source` can never loop.

 3. Index assembly: for each index, the referenced embeddings and their
    sources are built against the index's schema, combined by one
    aggregation node and closed by an index node.

Definition nodes are identified by content, so an embedding used by several
indexes over the same schema resolves to the same node identity and is
compiled once.
*/
package builder
