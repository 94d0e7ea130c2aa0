package main

import (
	"fmt"
	"os"
)

// exitHooks release resources that deferred calls would miss when a
// command exits through fatal.
var exitHooks []func() error

func onFatal(fn func() error) {
	exitHooks = append(exitHooks, fn)
}

func runExitHooks() {
	for i := len(exitHooks) - 1; i >= 0; i-- {
		_ = exitHooks[i]()
	}
	exitHooks = nil
}

func main() {
	Execute()
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	runExitHooks()
	os.Exit(1)
}
