// Package store keeps lecture jobs for the life of the process.
//
// There is no durable storage: a restart forgets every job. JobStore is the
// seam a persistent implementation would plug into.
package store
