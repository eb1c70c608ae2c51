package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Irfan-Alaam/chat-app/chat"
	"github.com/Irfan-Alaam/chat-app/internal/logging"
	"github.com/Irfan-Alaam/chat-app/internal/render"
)

const joinHelp = `Commands:
  /join <room-token>  switch to another room
  /leave              leave the current room
  /quit               exit
Anything else is sent to the current room.`

var joinCmd = &cobra.Command{
	Use:   "join <room-token>",
	Short: "Chat in a room interactively",
	Long: `Join a room and chat from the terminal. Each input line is sent to the room.

` + joinHelp,
	Args: cobra.ExactArgs(1),
	RunE: runJoin,
}

func init() {
	rootCmd.AddCommand(joinCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
	token, claims, err := cli.authenticate()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := render.New(cmd.OutOrStdout(), claims.Username)

	client := chat.NewClient(cli.settings.Chat)
	client.SetLogger(logging.NewSDK(cli.log))
	client.SetResolver(cli.api)
	client.OnEvent(out.Event)
	client.OnError(func(err error) {
		cli.log.Warn().Err(err).Msg("dropped inbound frame")
	})
	client.OnStateChange(func(ev chat.StateEvent) {
		cli.log.Debug().
			Str("session_id", ev.SessionID).
			Stringer("from", ev.OldState).
			Stringer("to", ev.NewState).
			AnErr("cause", ev.Error).
			Msg("session state")
	})
	defer leave(client)

	if _, err := client.Open(ctx, args[0], token); err != nil {
		return err
	}

	inputCh := make(chan string)
	go readInput(ctx.Done(), cmd.InOrStdin(), inputCh)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-inputCh:
			if !ok {
				return nil
			}
			if quit := handleLine(ctx, client, out, cmd.OutOrStdout(), token, strings.TrimSpace(line)); quit {
				return nil
			}
		}
	}
}

func handleLine(ctx context.Context, client *chat.Client, out *render.Renderer, w io.Writer, token, line string) bool {
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		s := client.Current()
		if s == nil || s.State() != chat.StateOpen {
			out.Error(chat.NewError(chat.KindInvalidInput, "not in a room: use /join <room-token>"))
			return false
		}
		if err := client.Send(ctx, line); err != nil {
			out.Error(err)
		}
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit":
		return true
	case "/help":
		fmt.Fprintln(w, joinHelp)
	case "/leave":
		_ = client.Close()
	case "/join":
		var room string
		if len(fields) > 1 {
			room = fields[1]
		}
		if s := client.Current(); s != nil && s.RoomToken() == room {
			if st := s.State(); st == chat.StateConnecting || st == chat.StateOpen {
				fmt.Fprintf(w, "* already in %s\n", s.RoomName())
				return false
			}
		}
		if _, err := client.Open(ctx, room, token); err != nil {
			out.Error(err)
		}
	default:
		out.Error(chat.NewError(chat.KindInvalidInput, fmt.Sprintf("unknown command %s: try /help", fields[0])))
	}
	return false
}

// leave closes the session and waits briefly so its final notice is printed.
func leave(client *chat.Client) {
	s := client.Current()
	if s == nil {
		return
	}
	_ = s.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		cli.log.Debug().Err(err).Msg("session did not finish")
	}
}

// readInput forwards lines from r until r is exhausted or done is closed.
// A Read already blocked on r is not interrupted.
func readInput(done <-chan struct{}, r io.Reader, dst chan<- string) {
	defer close(dst)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case dst <- scanner.Text():
		case <-done:
			return
		}
	}
}
