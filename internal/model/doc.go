// Package model defines shared data types used across the collector.
//
// Conventions:
//   - Prices, caps and volumes: USD as float64, nil when upstream omits them
//   - Capture times: local wall clock formatted as CaptureTimeLayout
//   - Cycle IDs: uuid.UUID, never persisted
package model
