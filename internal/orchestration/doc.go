// Package orchestration turns a configuration into workloads (parallel runs
// under one or more partitioning strategies, plus an optional sequential
// baseline), executes them one after another so their timings do not
// compete for CPUs, and checks that every result agrees.
//
// Presentation is reached only through the ProgressReporter and
// ResultPresenter interfaces.
package orchestration
