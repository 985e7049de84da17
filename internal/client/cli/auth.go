package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/connectlink/internal/client/client"
	"github.com/dmitrijs2005/connectlink/internal/client/models"
	"github.com/dmitrijs2005/connectlink/internal/client/services"
	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/spf13/cobra"
)

func (a *App) registerCommand() *cobra.Command {
	var (
		email    string
		userType string
		onboard  bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Long: `Create a ConnectLink account. The password is read from the terminal
without echo and must be at least 6 characters long.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := a.readCredentials(email)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			s, err := a.auth.Register(cmd.Context(), email, password, userType)
			if err != nil {
				return describe(err)
			}

			fmt.Fprintf(a.out, "Registered as %s (%s)\n", s.User.Email, s.User.UserType)
			return a.afterLogin(cmd, &s.User, onboard)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&userType, "type", "", "account type: volunteer (default) or organization")
	cmd.Flags().BoolVar(&onboard, "onboard", false, "fill in the profile right away")
	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var (
		email   string
		onboard bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := a.readCredentials(email)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			s, err := a.auth.Login(cmd.Context(), email, password)
			if err != nil {
				return describe(err)
			}

			fmt.Fprintf(a.out, "Logged in as %s\n", s.User.Email)
			return a.afterLogin(cmd, &s.User, onboard)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	cmd.Flags().BoolVar(&onboard, "onboard", false, "fill in the profile now if it is incomplete")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func (a *App) meCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, online, err := a.auth.Restore(cmd.Context())
			if err != nil {
				return describe(err)
			}
			if !online {
				fmt.Fprintln(a.out, "Server unavailable, showing cached profile")
			}
			printUser(a.out, &s.User)
			return nil
		},
	}
}

// describe turns client errors into messages fit for the terminal.
func describe(err error) error {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return errors.New(apiErr.Message)
	case errors.Is(err, services.ErrNotLoggedIn):
		return fmt.Errorf("%w, run `connectlink login` first", err)
	case errors.Is(err, client.ErrUnavailable):
		return errors.New("server unavailable, try again later")
	}
	return err
}

// afterLogin applies the profile completion gate.
func (a *App) afterLogin(cmd *cobra.Command, u *models.User, onboard bool) error {
	if !services.NeedsOnboarding(u) {
		fmt.Fprintln(a.out, "Profile complete. Next: `connectlink dashboard`")
		return nil
	}

	if !onboard {
		fmt.Fprintln(a.out, "Your profile is incomplete. Run `connectlink profile` or log in with --onboard to finish onboarding.")
		return nil
	}

	fmt.Fprintln(a.out, "Let's complete your profile (leave a field empty to skip it).")
	p, err := a.promptProfile()
	if err != nil {
		return err
	}
	if p.Empty() {
		fmt.Fprintln(a.out, "Nothing entered, onboarding skipped.")
		return nil
	}

	updated, err := a.auth.UpdateProfile(cmd.Context(), p)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintln(a.out, "Profile saved.")
	printUser(a.out, updated)
	return nil
}
