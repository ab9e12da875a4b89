// Package types defines the Inspector interface, the schema and row types it
// returns, configuration, and the standard errors of the database inspector.
// Implements: database inspection facade (data model, storage classes,
// row mutations, configuration).
package types
