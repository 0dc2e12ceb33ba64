// Package file provides the TOML-backed configuration store.
//
// The file lives at $COVRANK_HOME/config.toml, or ~/.covrank/config.toml
// when COVRANK_HOME is unset. Keys use dot notation ("ranking.default_limit")
// and are written back as nested TOML tables.
package file
