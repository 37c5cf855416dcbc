// Package ir provides canonical intermediate representation types for FluxGraph.
//
// This package contains the declarative POD produced by configuration
// loaders (TransformSpec, ModelSpec, EdgeSpec, RuleSpec, GraphSpec), the
// compiled program the compiler emits (CompiledEdge, CompiledRule,
// CompiledProgram), and the sealed Variant value type shared by
// transform/model parameters and rule action arguments, plus the small
// helpers built on them: Variant coercion and JSON encoding, name
// normalization, canonical GraphSpec JSON (MarshalCanonical), and config
// hashing (ConfigHash).
//
// ir imports nothing internal so it can sit under every other package
// without import cycles.
package ir
