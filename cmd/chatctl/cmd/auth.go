package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Irfan-Alaam/chat-app/chat"
	"github.com/Irfan-Alaam/chat-app/chat/rest"
)

var (
	flagUsername string
	flagEmail    string
	flagPassword string
	flagRole     string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Long: `Create an account on the chat server. Signing up does not log in.

Examples:
  chatctl signup --username bob --email bob@example.com --password secret
  chatctl signup --username root --email root@example.com --password secret --role admin`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := cli.api.Signup(cmd.Context(), rest.SignupRequest{
			Username: flagUsername,
			Email:    flagEmail,
			Password: flagPassword,
			Role:     rest.Role(flagRole),
		})
		if err != nil {
			return errors.New(chat.Detail(err, err.Error()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signup successful (user id %d). Log in with chatctl login.\n", resp.UserID)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := cli.api.Login(cmd.Context(), rest.LoginRequest{Username: flagUsername, Password: flagPassword})
		if err != nil {
			if chat.IsAuthFailure(err) {
				return errors.New(chat.Detail(err, "invalid credentials"))
			}
			return errors.New(chat.Detail(err, err.Error()))
		}
		if err := cli.tokens.Save(resp.AccessToken); err != nil {
			return err
		}
		name := flagUsername
		if claims, err := rest.ParseClaims(resp.AccessToken); err == nil && claims.Username != "" {
			name = claims.Username
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.tokens.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, claims, err := cli.authenticate()
		if err != nil {
			return err
		}
		me, err := cli.api.Me(cmd.Context())
		if err != nil {
			return cli.check(err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s <%s> id=%d role=%s\n", me.Username, me.Email, me.ID, me.Role)
		if !claims.ExpiresAt.IsZero() {
			fmt.Fprintf(out, "token expires %s\n", claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVarP(&flagUsername, "username", "u", "", "user name")
	signupCmd.Flags().StringVarP(&flagEmail, "email", "e", "", "email address")
	signupCmd.Flags().StringVarP(&flagPassword, "password", "p", "", "password")
	signupCmd.Flags().StringVar(&flagRole, "role", string(rest.RoleUser), "user or admin")
	for _, f := range []string{"username", "email", "password"} {
		_ = signupCmd.MarkFlagRequired(f)
	}

	loginCmd.Flags().StringVarP(&flagUsername, "username", "u", "", "user name")
	loginCmd.Flags().StringVarP(&flagPassword, "password", "p", "", "password")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)
}
