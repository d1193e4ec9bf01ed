// Package collector implements the collection loop.
//
// Each cycle:
//   - Captures one local timestamp shared by the whole batch
//   - Fetches the top coins by market cap in a single request
//   - Converts records to snapshot rows, skipping invalid records
//   - Appends the batch to the store in one write
//   - Waits the fixed interval, whatever the outcome
//
// Cycles run strictly one after another. Every per-cycle failure is logged and
// absorbed; only context cancellation ends the loop.
package collector
