//go:build integration

// Package testdb provides helpers for database integration tests.
//
// Each test runs inside its own transaction that is rolled back when the test
// finishes, so tests can run in parallel against one database:
//
//	func TestSomething(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, nil)
//	        // ...
//	    })
//	}
//
// The connection string is read from AICMS_TEST_DB_URL, then DATABASE_URL.
// Tests are skipped when neither is set.
package testdb
