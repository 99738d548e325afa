package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) chatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chats",
		Short: "Message the other side of an application",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your chat threads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			threads, err := a.chats.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, chat := range threads {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", chat.ID, chat.JobTitle)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <chat-id>",
		Short: "Show a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			chat, err := a.chats.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, msg := range chat.Messages {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", msg.Timestamp, msg.Sender, msg.Text)
			}
			return nil
		},
	}

	send := &cobra.Command{
		Use:   "send <chat-id> <message...>",
		Short: "Send a message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			msg, err := a.chats.SendMessage(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent at %s\n", msg.Timestamp)
			return nil
		},
	}

	cmd.AddCommand(list, show, send)
	return cmd
}
