package main

import (
	"fmt"
	"os"

	"alertflow/cmd/alertflow/command"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "alertflow",
		Short:        "alertflow is the alert management and notification dispatch service",
		SilenceUsage: true,
	}
	root.AddCommand(command.ServerCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
