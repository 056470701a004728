// Package sqldb implements the database tool provider over database/sql, with SQLite
// (modernc.org/sqlite) and PostgreSQL (lib/pq) drivers.
package sqldb
