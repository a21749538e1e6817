// Package postgres implements the store interfaces using a PostgreSQL
// database as the storage backend. Board aggregates persist as single rows
// with the task hierarchy in a JSONB column, so every aggregate write is one
// atomic row update.
package postgres
