// Package metrics records resolver counters and latencies.
package metrics

import "time"

// Label keys understood by the recorders.
const (
	LabelChain = "chain"
)

type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
