// Package postgres implements the store interfaces on PostgreSQL using the
// pgx stdlib driver. All stores accept a DBTX so they can run against either
// a connection pool or a transaction.
package postgres
