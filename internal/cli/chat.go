package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tOgg1/uplink/internal/events"
	"github.com/tOgg1/uplink/internal/models"
)

func newChatCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <peer>",
		Short: "Start or resume a conversation with a friend",
		Long: "Start a conversation with a friend, or resume the existing one, and make it the\n" +
			"active conversation. With --reply the text is composed and submitted as a reply.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			peer := models.PeerID(strings.TrimSpace(args[0]))
			lang := a.store.Snapshot().Language

			typing := 0
			sub, err := a.bus.Subscribe(events.Filter{EventTypes: []models.EventType{models.EventTypeTyping}}, func(*models.Event) {
				typing++
			})
			if err != nil {
				return Exitf(ExitCodeFailure, "%v", err)
			}
			defer func() { _ = a.bus.Unsubscribe(sub) }()

			handle, ok := a.initiator.Start(cmd.Context(), peer)
			if !ok {
				return Exitf(ExitCodeFailure, "%s", rt.catalog.Format(lang, "conversation_failed", map[string]string{"peer": peer.String()}))
			}

			reply, _ := cmd.Flags().GetString("reply")
			var sent []string
			if cmd.Flags().Changed("reply") {
				popout := a.composer(cmd.Context(), handle, func(text string) {
					sent = append(sent, text)
					a.logger.Info().Str("conversation", handle.String()).Int("length", len(text)).Msg("reply submitted")
				})
				popout.Open()
				popout.Composer().OnInput(reply)
				popout.Composer().OnEnter()
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"peer":           peer,
					"conversation":   handle,
					"replies":        sent,
					"typing_signals": typing,
				})
			}
			writeLine(cmd, rt.catalog.Format(lang, "conversation_started", map[string]string{
				"peer":         peer.String(),
				"conversation": handle.String(),
			}))
			if len(sent) > 0 {
				writeLine(cmd, rt.catalog.Lookup(lang, "reply_sent"))
			}
			return nil
		},
	}
	cmd.Flags().String("reply", "", "Compose and submit a reply in the conversation")
	return cmd
}
