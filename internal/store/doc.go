// Package store defines the persistence interfaces for users, prompt
// templates and generated content, along with the errors implementations
// return. Postgres implementations live in internal/platform/postgres.
package store
