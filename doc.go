// Package huml implements HUML (Human-Usable Markup Language) v0.1.0: a
// human-oriented, indentation-sensitive data serialization format in the
// YAML/TOML family.
//
// The package provides two tightly coupled pieces: [Parse], a
// recursive-descent, indentation-aware reader that turns HUML source text
// into a [Document], and [Marshal], a producer that turns a [Document]
// (whose root may be any [Value]) back into canonical HUML text such that
//
//	Parse(Marshal(d)) structurally equals d
//
// for any document d built by Parse. The package never retains references
// into caller-supplied source buffers past the call that received them:
// every [Value] it returns owns its own data.
//
// huml is synchronous, holds no package-level mutable state, and is safe to
// call concurrently from multiple goroutines on independent inputs.
package huml
