// Package memory provides in-memory implementations of the driven store
// ports. They share one state so product, company and score reads see each
// other's writes, mirroring the SQLite adapter's single database.
//
// The stores are safe for concurrent use. Nothing is persisted.
package memory
