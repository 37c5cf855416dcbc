// Package transform implements the eight stateful scalar transform kinds
// FluxGraph edges use to connect one signal to another: linear,
// first_order_lag, delay, noise, saturation, deadband, rate_limiter, and
// moving_average. Every kind satisfies ir.Transform (Apply/Reset/Clone);
// the engine owns each instance exclusively, cloning only for checkpoints
// and tests.
package transform
