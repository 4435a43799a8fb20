// Package app contains the core application logic. It owns the run
// configuration, loads the translation tables and profiles, and drives one
// of the three pipelines from an input file to an output file, decoupled
// from any specific entrypoint like a CLI.
package app
