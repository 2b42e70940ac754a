// Package quantmind ingests unstructured research content (academic papers,
// web snippets) and turns it into a persistent, queryable knowledge base of
// enriched items.
//
// The core is a composable pipeline:
//
//	Source -> Parser -> Enricher (Flow / Tagger) -> Storage
//
// glued together by a typed configuration and plugin-registry layer
// (pkg/config), a template-driven prompt engine with retry-wrapped LLM
// invocation (pkg/llms, pkg/flow), and an indexed local store with O(1)
// lookup and self-healing (pkg/storage).
//
// Sources, parsers, and CLI tooling are external collaborators and are not
// part of this module.
package quantmind
