// Package progress defines how workers report their advancement while a
// partitioned run is in flight.
//
// The coordinator calls an Observer from worker goroutines, so every
// implementation must be safe for concurrent use and must never block the
// compute loop. ChannelObserver drops updates when its consumer is slow.
package progress
