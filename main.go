// main is the entry point for the dhistat CLI.
package main

import (
	"github.com/mfofanah/dhistat/cmd"
	"github.com/mfofanah/dhistat/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Cannot execute command", err)
	}
	if err := cmd.StopProfiling(); err != nil {
		contract.LogWarn("Cannot stop profiling", err)
	}
}
