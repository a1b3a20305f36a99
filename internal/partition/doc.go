// Package partition splits a half-open range of ordinals into per-worker
// assignments.
//
// The default strategy is Interleaved: the range is cut into fixed-length
// slices that are dealt to workers round-robin, so every worker receives
// slices spread across the whole range. For workloads whose per-element cost
// grows with the element value (primality testing) this keeps worker
// finishing times close together, and because the slice length is not
// derived from the worker count, slice boundaries do not line up with small
// periodic structure such as parity.
//
// Contiguous is the naive block split and exists for comparison runs.
package partition
