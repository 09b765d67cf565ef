// main is the entry point for the retention CLI.
package main

import (
	"os"

	"github.com/huangsam/retention/cmd"
	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/store"
)

func main() {
	os.Exit(run())
}

// run executes the root command and releases global resources before exit.
func run() int {
	cmd.SetStoreManager(store.Manager)
	defer store.CloseStore()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Failed to stop profiling", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		contract.LogWarn("Command failed", err)
		return 1
	}
	return 0
}
