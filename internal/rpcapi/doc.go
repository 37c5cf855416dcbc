// Package rpcapi declares the transport-agnostic coordinator surface of
// spec.md §6 as plain Go types: one request/response DTO pair per
// operation and a Service interface a transport binds against. It carries
// no wire codec of its own — Adapter satisfies Service by translating to
// and from internal/coordinator's idiomatic method signatures.
package rpcapi
