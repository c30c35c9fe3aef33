// Package domain contains the entities of a lecture processing job: the job
// itself with its per-stage progress, and the text artifacts generated from
// the transcript. Nothing here knows about providers, HTTP or storage.
package domain
