package main

import (
	"context"
	"os"

	"github.com/cleared-dev/spendwise/internal/commands"
)

func main() {
	rootCmd := commands.NewRootCommand()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_ = commands.WriteError(os.Stdout, err)
		os.Exit(1)
	}
}
