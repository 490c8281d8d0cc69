package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/surveyetl/internal/cli"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(surveyetl.ExitPanic)
		}
	}()

	if os.Getenv("SURVEYETL_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(surveyetl.ExitCodeForError(err))
	}
}
