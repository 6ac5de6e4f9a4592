// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts HTTP to the content and user services and
// maps their errors to status codes.
package api
