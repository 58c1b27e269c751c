// Command dialectmt trains the dialect translator and runs it on sentences,
// test sets and the transcription database.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
