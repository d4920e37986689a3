// Package core holds process-wide helpers shared by the dashboard goroutines.
package core

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/graphina/terminal"
)

var (
	crashMu       sync.Mutex
	crashTerminal terminal.Terminal
)

// SetCrashTerminal registers the live terminal so a crash restores it via Fini
func SetCrashTerminal(t terminal.Terminal) {
	crashMu.Lock()
	crashTerminal = t
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	t := crashTerminal
	crashMu.Unlock()

	if t != nil {
		t.Fini()
	} else {
		terminal.EmergencyReset(os.Stdout)
	}

	stack := debug.Stack()
	slog.Error("crash", "panic", fmt.Sprint(r), "stack", string(stack))

	os.Stdout.Sync()
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mGRAPHINA CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", stack)
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
