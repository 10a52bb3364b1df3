package main

import (
	"fmt"
	"strings"

	"github.com/deepgram/assistant/internal/services/conversation"
	"github.com/spf13/cobra"
)

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message and stream the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatService, err := a.newChat(a.cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			conversations := conversation.NewServiceWithStore(chatService, conversation.NewMemoryStore())

			err = conversations.Submit(cmd.Context(), "cli", strings.Join(args, " "), func(e conversation.Event) error {
				switch e.Type {
				case conversation.EventDelta:
					_, err := fmt.Fprint(out, e.Delta)
					return err
				case conversation.EventDone:
					_, err := fmt.Fprintln(out)
					return err
				}
				return nil
			})
			return err
		},
	}
}
