// Package source holds the line-level building blocks shared by every
// pipeline: the label/instruction/comment classifier, an owned queue over
// the input lines, and the block extractors that consume delimiter-bounded
// spans from that queue.
//
// Extractors always consume from a *Queue rather than indexing into a
// slice, because the number of lines a block spans is only known once its
// closing delimiter has been found.
package source
