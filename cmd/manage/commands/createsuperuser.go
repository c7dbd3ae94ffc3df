package commands

import (
	"fmt"
	"strings"

	"github.com/pestozap/pestozap-backend/internal/database"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/pestozap/pestozap-backend/internal/repository"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/spf13/cobra"
)

var superuser struct {
	email     string
	password  string
	firstName string
	lastName  string
}

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an administrator account",
	Long: `Create an active, verified account with staff and superuser rights.

Examples:
  manage createsuperuser --email admin@example.com --password 'S3curePass'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.RegisterInput{
			Email:     strings.ToLower(strings.TrimSpace(superuser.email)),
			Password:  superuser.password,
			FirstName: superuser.firstName,
			LastName:  superuser.lastName,
		}
		if err := in.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()
		users := repository.NewUserRepository(database.GetDB())
		exists, err := users.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if exists {
			return service.ErrEmailExists
		}

		user := &model.User{
			Email:       in.Email,
			Username:    in.Email,
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			IsActive:    true,
			IsVerified:  true,
			IsStaff:     true,
			IsSuperuser: true,
		}
		if err := user.SetPassword(in.Password); err != nil {
			return err
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "superuser %s created\n", user.Email)
		return nil
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Grant staff and superuser rights to an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		users := repository.NewUserRepository(database.GetDB())
		user, err := users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(args[0])))
		if err != nil {
			return err
		}
		user.IsStaff = true
		user.IsSuperuser = true
		if err := users.Update(ctx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now an administrator\n", user.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promoteCmd)

	f := createSuperuserCmd.Flags()
	f.StringVar(&superuser.email, "email", "", "login email (required)")
	f.StringVar(&superuser.password, "password", "", "password (required)")
	f.StringVar(&superuser.firstName, "first-name", "", "first name")
	f.StringVar(&superuser.lastName, "last-name", "", "last name")
	_ = createSuperuserCmd.MarkFlagRequired("email")
	_ = createSuperuserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createSuperuserCmd)
}
