package cli

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tOgg1/uplink/internal/events"
	"github.com/tOgg1/uplink/internal/models"
)

func newFriendsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "friends",
		Aliases: []string{"friend"},
		Short:   "Manage the friend list",
	}

	add := &cobra.Command{
		Use:   "add <peer>",
		Short: "Add a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			peer := models.PeerID(strings.TrimSpace(args[0]))
			username, _ := cmd.Flags().GetString("username")
			picture, _ := cmd.Flags().GetString("picture")
			if err := a.backend.AddFriend(cmd.Context(), peer, username, picture); err != nil {
				return Exitf(ExitCodeFailure, "%v", err)
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), friendJSON{Peer: peer, Username: username, Picture: picture})
			}
			writeLine(cmd, rt.catalog.Format(a.store.Snapshot().Language, "friend_added", map[string]string{"peer": peer.String()}))
			return nil
		},
	}
	add.Flags().String("username", "", "Display name")
	add.Flags().String("picture", "", "Profile picture URL")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List friends",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			friends, err := a.backend.Friends(cmd.Context())
			if err != nil {
				return Exitf(ExitCodeFailure, "%v", err)
			}
			if jsonOutput(cmd) {
				out := make([]friendJSON, 0, len(friends))
				for _, f := range friends {
					out = append(out, friendJSON{Peer: f.Peer, Username: f.Username, Picture: f.Picture, AddedAt: f.AddedAt})
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			lang := a.store.Snapshot().Language
			if len(friends) == 0 {
				writeLine(cmd, rt.catalog.Lookup(lang, "no_friends"))
				return nil
			}
			st := newStyles(cmd.OutOrStdout())
			rows := make([][]string, 0, len(friends))
			for _, f := range friends {
				rows = append(rows, []string{f.Peer.String(), f.Username, st.Muted.Render(humanize.Time(f.AddedAt))})
			}
			return writeTable(cmd.OutOrStdout(), []string{"PEER", "USERNAME", "ADDED"}, rows)
		},
	}

	remove := &cobra.Command{
		Use:     "remove <peer>",
		Aliases: []string{"rm"},
		Short:   "Remove a friend",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			peer := models.PeerID(strings.TrimSpace(args[0]))
			removed := false
			sub, err := a.bus.Subscribe(events.Filter{
				EventTypes: []models.EventType{models.EventTypeFriendRemoved},
				EntityID:   peer.String(),
			}, func(*models.Event) { removed = true })
			if err != nil {
				return Exitf(ExitCodeFailure, "%v", err)
			}
			defer func() { _ = a.bus.Unsubscribe(sub) }()

			// Failures are logged by the remover; the command still succeeds.
			a.remover.RemoveFriend(cmd.Context(), peer)

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"peer": peer, "removed": removed})
			}
			if removed {
				writeLine(cmd, rt.catalog.Format(a.store.Snapshot().Language, "friend_removed", map[string]string{"peer": peer.String()}))
			}
			return nil
		},
	}

	cmd.AddCommand(add, list, remove)
	return cmd
}

type friendJSON struct {
	Peer     models.PeerID `json:"peer"`
	Username string        `json:"username,omitempty"`
	Picture  string        `json:"picture,omitempty"`
	AddedAt  time.Time     `json:"added_at,omitempty"`
}
