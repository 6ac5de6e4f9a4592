// Package service contains the application use cases: Google sign-in and
// session checks, template listing, and generation and management of content.
//
// Services receive their stores, the language model client and the token
// service through constructor injection and never depend on a concrete
// database or HTTP implementation. Expected failures are returned as the
// sentinel errors in errors.go; the API layer maps them to status codes.
package service
