// Package logging provides the logging interface used by primecalc.
// Components log through Logger so the coordinator and the CLI share one
// sink. The backend is zerolog.
package logging
