// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It parses the embedded default tables and any user profiles,
// decodes them with gohcl into the schema package's structs and translates
// the result into the format-agnostic config model.
package hcl
