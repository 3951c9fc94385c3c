// Package testutil provides deterministic point-cloud generators shared
// by tests, benchmarks and the runnable example.
package testutil
