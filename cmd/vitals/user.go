// ABOUTME: CLI commands for managing user profiles.
// ABOUTME: Create, show, list, and update users in the vitals store.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/models"
	"github.com/spf13/cobra"
)

var (
	userPassword string
	userHeight   float64
	userName     string
	userDOB      string
	userGender   string
	userAvatar   int
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user profiles",
	Long: `Manage user profiles in the vitals store.

The store holds any number of profiles; each reading belongs to one.
Height on the profile is used as the default when logging weight.

EXAMPLES:

  vitals user create "Ada" ada@example.com --password s3cret-pass
  vitals user show
  vitals user update --height 175
  vitals user list`,
}

var userCreateCmd = &cobra.Command{
	Use:   "create <name> <email>",
	Short: "Create a user profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if userPassword == "" {
			return fmt.Errorf("--password is required (minimum 8 characters)")
		}

		u, err := models.NewUser(args[0], args[1], userPassword)
		if err != nil {
			return err
		}
		if userHeight > 0 {
			u.HeightCm = &userHeight
		}
		if err := u.Validate(); err != nil {
			return err
		}
		if err := repo.CreateUser(u); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		color.Green("✓ Created user %s", u.Name)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(u.ID.String()[:8]),
			u.Email)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List user profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := repo.ListUsers()
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) == 0 {
			fmt.Println("No users found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, u := range users {
			fmt.Printf("%s %s <%s>\n",
				faint.Sprint(u.ID.String()[:8]),
				u.Name, u.Email)
		}
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current user profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := resolveUser()
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		fmt.Printf("%s %s <%s>\n", faint.Sprint(u.ID.String()[:8]), u.Name, u.Email)
		if u.HeightCm != nil {
			fmt.Printf("  height: %.1f cm\n", *u.HeightCm)
		}
		if u.DateOfBirth != nil {
			fmt.Printf("  born:   %s\n", *u.DateOfBirth)
		}
		if u.Gender != nil {
			fmt.Printf("  gender: %s\n", *u.Gender)
		}
		fmt.Printf("  since:  %s\n", faint.Sprint(u.CreatedAt.Format("2006-01-02")))
		return nil
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the current user profile",
	Long: `Update profile fields for the current user.

Only the flags you pass are changed. Changing height affects the BMI
of future weight entries, not historical ones.

EXAMPLES:

  vitals user update --height 175
  vitals user update --name "Ada L" --dob 1990-12-10
  vitals user update --password new-secret-pass`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := resolveUser()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("name") {
			u.Name = userName
		}
		if cmd.Flags().Changed("height") {
			u.HeightCm = &userHeight
		}
		if cmd.Flags().Changed("dob") {
			u.DateOfBirth = &userDOB
		}
		if cmd.Flags().Changed("gender") {
			u.Gender = &userGender
		}
		if cmd.Flags().Changed("avatar") {
			u.Avatar = userAvatar
		}
		if cmd.Flags().Changed("password") {
			if err := u.SetPassword(userPassword); err != nil {
				return err
			}
		}

		if err := u.Validate(); err != nil {
			return err
		}
		if err := repo.UpdateUser(u); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		color.Green("✓ Updated %s", u.Name)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "account password (min 8 characters)")
	userCreateCmd.Flags().Float64Var(&userHeight, "height", 0, "height in cm")

	userUpdateCmd.Flags().StringVar(&userName, "name", "", "display name")
	userUpdateCmd.Flags().Float64Var(&userHeight, "height", 0, "height in cm")
	userUpdateCmd.Flags().StringVar(&userDOB, "dob", "", "date of birth (YYYY-MM-DD)")
	userUpdateCmd.Flags().StringVar(&userGender, "gender", "", "gender")
	userUpdateCmd.Flags().IntVar(&userAvatar, "avatar", 0, "avatar index (0-11)")
	userUpdateCmd.Flags().StringVar(&userPassword, "password", "", "new password (min 8 characters)")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userUpdateCmd)
	rootCmd.AddCommand(userCmd)
}
