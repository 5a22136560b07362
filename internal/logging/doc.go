// Package logging provides the structured logging interface used by the
// refinement runner and the command line. The numeric core never logs.
package logging
