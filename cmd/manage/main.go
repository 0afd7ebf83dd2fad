package main

import (
	"os"

	"github.com/recipebox/recipebox/cmd/manage/cmd"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "manage",
		Short:        "Operator tools for recipebox",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.CreateAdminCmd())
	rootCmd.AddCommand(cmd.ImportDishCmd())
	rootCmd.AddCommand(cmd.SweepUploadsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
