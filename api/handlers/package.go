// Package handlers contains the service's built-in HTTP handlers. They answer
// through the response envelope and report failures as domain errors, the
// same way business handlers are expected to.
package handlers
