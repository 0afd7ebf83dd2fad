package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/validation"
	"github.com/spf13/cobra"
)

func CreateAdminCmd() *cobra.Command {
	var (
		lastName   string
		firstName  string
		middleName string
	)

	cmd := &cobra.Command{
		Use:   "create-admin <username>",
		Short: "Create an administrator account (password is read from stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			role, err := app.UserService.RoleByName(model.RoleAdministrator)
			if err != nil {
				return fmt.Errorf("administrator role missing, run migrations first: %w", err)
			}

			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			password, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && password == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}

			user, err := app.AuthService.Register(service.RegisterInput{
				Username:   args[0],
				Password:   strings.TrimRight(password, "\r\n"),
				LastName:   lastName,
				FirstName:  firstName,
				MiddleName: middleName,
				RoleID:     role.ID,
			})
			var errs validation.Errors
			if errors.As(err, &errs) {
				for field, msg := range errs {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
				}
				return errors.New("invalid account details")
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created administrator %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&lastName, "last-name", "Admin", "last name")
	cmd.Flags().StringVar(&firstName, "first-name", "Admin", "first name")
	cmd.Flags().StringVar(&middleName, "middle-name", "", "middle name")
	return cmd
}
