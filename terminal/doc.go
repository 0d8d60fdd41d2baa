// @focus: #sys { term }
// Package terminal holds terminal color capability handling used by ANSI output.
//
// Features:
//   - True color (24-bit) and 256-color palette support
//   - Color capability detection from the environment
//   - RGB → xterm-256 nearest palette lookup
//   - Allocation-free SGR sequence writers
//
// Sequences are emitted directly; terminfo/termcap is not consulted.
package terminal
