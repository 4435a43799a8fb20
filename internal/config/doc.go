// Package config defines the format-agnostic model of the data tables the
// pipelines run on: the translation dictionaries, the resolution profile
// and the fixed-knowledge target profiles, along with the Loader interface
// that produces them.
//
// The tables are data, not code. The pipelines only ever see a *Model;
// concrete loaders, such as the HCL one, live in separate packages.
package config
