// Package events defines the events emitted on the event bus once a swap
// plan has been computed.
//
// Available event types:
//   - SelectionEvent: outcome of one branch selection
package events
