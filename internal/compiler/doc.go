// Package compiler turns a declarative ir.GraphSpec into an ir.CompiledProgram
// the engine can tick: it instantiates models and edges, interns every
// signal/device/function name it encounters, enforces single-writer
// ownership, rejects algebraic loops in the non-delay subgraph, orders edges
// deterministically, and compiles rule conditions into closures.
package compiler
