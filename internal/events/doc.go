// Package events carries lecture job progress between components.
//
// The pipeline emits a StageEvent whenever a stage starts, completes, fails
// or is skipped, and the lecture service emits a submission event when a job
// is accepted. Handlers registered on an InMemoryEventEmitter receive every
// event synchronously, in registration order.
package events
