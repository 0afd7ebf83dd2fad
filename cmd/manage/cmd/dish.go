package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/validation"
	"github.com/spf13/cobra"
)

func ImportDishCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "import-dish <file.md>...",
		Short: "Create dishes from markdown files with front matter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			user, err := app.UserService.ByUsername(owner)
			if err != nil {
				return fmt.Errorf("unknown owner %q: %w", owner, err)
			}
			principal, err := app.UserService.Principal(user.ID)
			if err != nil {
				return err
			}

			failed := 0
			for _, path := range args {
				source, err := os.ReadFile(path)
				if err != nil {
					return err
				}

				dish, err := app.ImportService.Import(principal, source)
				if err != nil {
					failed++
					var errs validation.Errors
					if errors.As(err, &errs) {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, errs)
						continue
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: imported %q (id %d)\n", path, dish.Title, dish.ID)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "username that will own the imported dishes")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func SweepUploadsCmd() *cobra.Command {
	var (
		dryRun bool
		minAge time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sweep-uploads",
		Short: "Delete stored photos that no dish references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			known, err := app.DishService.PhotoKeys()
			if err != nil {
				return err
			}

			orphans, err := app.PhotoService.SweepOrphans(known, minAge, dryRun)
			for _, key := range orphans {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			if err != nil {
				return err
			}

			verb := "removed"
			if dryRun {
				verb = "would remove"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d orphaned photos\n", verb, len(orphans))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only list orphaned photos")
	cmd.Flags().DurationVar(&minAge, "min-age", service.OrphanMinAge, "skip photos written more recently than this")
	return cmd
}
