// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between HTTP clients and the
// lecture service: multipart lecture submissions, job views, artifact
// downloads in every export format, synchronous generation and the provider
// registry.
package api
