// Package task runs lecture jobs in the background on a bounded pool of
// workers fed by an in-memory queue.
package task
