package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Irfan-Alaam/chat-app/chat/rest"
)

var (
	flagOutput      string
	flagDescription string
	flagPrivate     bool
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Manage your rooms",
}

var roomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rooms you created or joined",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := cli.authenticate(); err != nil {
			return err
		}
		rooms, err := cli.api.MyRooms(cmd.Context())
		if err != nil {
			return cli.check(err)
		}
		if flagOutput == "json" {
			return writeJSON(cmd.OutOrStdout(), rooms)
		}
		if len(rooms) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No rooms yet. Create one with chatctl rooms create.")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTOKEN\tDESCRIPTION")
		for _, r := range rooms {
			desc := ""
			if r.Description != nil {
				desc = *r.Description
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Name, r.Token, desc)
		}
		return w.Flush()
	},
}

var roomsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a room",
	Long: `Create a room. The printed token is what others need to join a private room.

Examples:
  chatctl rooms create general
  chatctl rooms create team --private --description "team only"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := cli.authenticate(); err != nil {
			return err
		}
		req := rest.CreateRoomRequest{Name: args[0], IsPrivate: flagPrivate}
		if flagDescription != "" {
			req.Description = &flagDescription
		}
		resp, err := cli.api.CreateRoom(cmd.Context(), req)
		if err != nil {
			return cli.check(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Room created: id=%d token=%s\n", resp.RoomID, resp.RoomToken)
		return nil
	},
}

var roomsShowCmd = &cobra.Command{
	Use:   "show <room-token>",
	Short: "Look a room up by its token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := cli.authenticate(); err != nil {
			return err
		}
		info, err := cli.api.RoomByToken(cmd.Context(), args[0])
		if err != nil {
			return cli.check(err)
		}
		if flagOutput == "json" {
			return writeJSON(cmd.OutOrStdout(), info)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "id\t%d\n", info.ID)
		fmt.Fprintf(w, "name\t%s\n", info.Name)
		if info.Description != nil {
			fmt.Fprintf(w, "description\t%s\n", *info.Description)
		}
		fmt.Fprintf(w, "private\t%t\n", info.IsPrivate)
		fmt.Fprintf(w, "created by\t%d\n", info.CreatedBy)
		return w.Flush()
	},
}

var roomsRenameCmd = &cobra.Command{
	Use:   "rename <room-token> <name>",
	Short: "Rename a room you created",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := cli.authenticate(); err != nil {
			return err
		}
		resp, err := cli.api.UpdateRoom(cmd.Context(), args[0], rest.UpdateRoomRequest{Name: args[1]})
		if err != nil {
			return cli.check(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Room %d renamed to %s\n", resp.ID, resp.Name)
		return nil
	},
}

var roomsDeleteCmd = &cobra.Command{
	Use:   "delete <room-token>",
	Short: "Delete a room you created",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := cli.authenticate(); err != nil {
			return err
		}
		if err := cli.api.DeleteRoom(cmd.Context(), args[0]); err != nil {
			return cli.check(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Room deleted")
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	roomsCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "table", "table or json")
	roomsCreateCmd.Flags().StringVarP(&flagDescription, "description", "d", "", "room description")
	roomsCreateCmd.Flags().BoolVar(&flagPrivate, "private", false, "only joinable with the token")

	roomsCmd.AddCommand(roomsListCmd, roomsCreateCmd, roomsShowCmd, roomsRenameCmd, roomsDeleteCmd)
	rootCmd.AddCommand(roomsCmd)
}
