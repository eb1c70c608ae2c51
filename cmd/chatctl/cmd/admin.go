package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin tools (requires the admin role)",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd, args); err != nil {
			return err
		}
		_, claims, err := cli.authenticate()
		if err != nil {
			return err
		}
		if !claims.IsAdmin() {
			return errors.New("admin access required")
		}
		return nil
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List every user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := cli.api.AdminUsers(cmd.Context())
		if err != nil {
			return cli.check(err)
		}
		if flagOutput == "json" {
			return writeJSON(cmd.OutOrStdout(), users)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE\tACTIVE")
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Username, u.Email, u.Role, u.IsActive)
		}
		return w.Flush()
	},
}

var adminRoomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List every room",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rooms, err := cli.api.AdminRooms(cmd.Context())
		if err != nil {
			return cli.check(err)
		}
		if flagOutput == "json" {
			return writeJSON(cmd.OutOrStdout(), rooms)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTOKEN\tCREATED BY")
		for _, r := range rooms {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", r.ID, r.Name, r.Token, r.CreatedBy)
		}
		return w.Flush()
	},
}

var adminDeleteUserCmd = &cobra.Command{
	Use:   "delete-user <user-id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("user id %q: not a number", args[0])
		}
		if err := cli.api.AdminDeleteUser(cmd.Context(), id); err != nil {
			return cli.check(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User %d deleted\n", id)
		return nil
	},
}

var adminDeleteRoomCmd = &cobra.Command{
	Use:   "delete-room <room-token>",
	Short: "Delete any room",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.api.AdminDeleteRoom(cmd.Context(), args[0]); err != nil {
			return cli.check(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Room deleted")
		return nil
	},
}

func init() {
	adminCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "table", "table or json")
	adminCmd.AddCommand(adminUsersCmd, adminRoomsCmd, adminDeleteUserCmd, adminDeleteRoomCmd)
	rootCmd.AddCommand(adminCmd)
}
