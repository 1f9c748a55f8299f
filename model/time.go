package model

// TimeUnit counts discrete simulation ticks. Fire-spread delay is measured in
// ticks relative to edge weight.
type TimeUnit uint64
