package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tOgg1/uplink/internal/config"
)

func newIdentityCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Show the local peer identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.cfg.EnsureDirectories(); err != nil {
				return Exitf(ExitCodeFailure, "%v", err)
			}
			store := config.NewIdentityStore(rt.cfg.IdentityPath())
			id, err := store.Ensure()
			if err != nil {
				return Exitf(ExitCodeFailure, "load identity: %v", err)
			}

			if cmd.Flags().Changed("username") {
				name, _ := cmd.Flags().GetString("username")
				id.Username = strings.TrimSpace(name)
				if err := store.Save(id); err != nil {
					return Exitf(ExitCodeFailure, "save identity: %v", err)
				}
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), id)
			}
			writeLine(cmd, id.String())
			writeLine(cmd, id.Peer.String())
			return nil
		},
	}
	cmd.Flags().String("username", "", "Set the display name")
	return cmd
}
