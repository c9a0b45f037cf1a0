// Package database provides the PostgreSQL connection pool, the startup schema
// migration, and the user repository.
package database
