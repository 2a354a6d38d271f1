// Package cli implements the authkeeper command-line client: guest, register,
// login, refresh, and verify subcommands built with cobra on top of
// authclient. Results are printed as indented JSON.
package cli
