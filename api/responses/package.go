// Package responses builds the uniform JSON envelope returned by every endpoint.
//
// Successful responses look like
//
//	{"success": true, "message": "...", "links": [...], "data": ...}
//
// where message and links are only present when set, and failed responses like
//
//	{"success": false, "message": "...", "error": ...}
//
// where error is always present and may be null.
package responses
