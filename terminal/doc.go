// Package terminal provides direct ANSI terminal control for the dashboard.
//
// Features:
//   - True color (24-bit) and 256-color palette output
//   - Cell update batches written with cursor-run and SGR coalescing
//   - Raw stdin key parsing (quit keys only)
//   - SIGWINCH resize detection
//   - Clean terminal restoration on exit/panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
