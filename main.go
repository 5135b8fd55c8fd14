// main holds the entry logic for the greenmetrics CLI.
package main

import (
	"github.com/greenmetrics/greenmetrics/cmd"
	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/greenmetrics/greenmetrics/internal/runstore"
)

// main is the entry point for greenmetrics.
// It wires the run history manager into the command tree and executes it.
func main() {
	defer runstore.CloseStores()

	cmd.SetStoreManager(runstore.Manager)
	if err := cmd.Execute(); err != nil {
		runstore.CloseStores()
		contract.LogFatal("Cannot execute command", err)
	}
}
