// Package postgres implements the internal/store interfaces on PostgreSQL
// through database/sql and the pgx driver. Schema migrations live in the
// migrations subpackage and are applied with goose.
//
// Driver errors are wrapped with github.com/pkg/errors so that debug error
// responses can print a stack; store sentinels stay reachable via errors.Is.
package postgres
