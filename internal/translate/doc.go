// Package translate converts MACRO-10 style 6502 source into ca65 syntax.
//
// The pipeline is a fixed sequence of stages, each consuming a queue over
// the previous stage's output:
//
//	clean -> patch -> conditionals -> macros -> assignments -> repeat -> instructions -> tabs
//
// Every construct is recognized by an exact string or a fixed pattern and
// rewritten from a closed table loaded into config.Translation. A construct
// the tables do not cover is either passed through unchanged or, where
// passing it through would ship untranslated code, reported as an error.
package translate
