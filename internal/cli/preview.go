package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

func newPreviewCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <text>",
		Short: "Fetch the link preview for a message text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			if a.fetcher == nil {
				return Exitf(ExitCodeFailure, "link previews are disabled (preview.enabled=false)")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), rt.cfg.Preview.Timeout)
			defer cancel()
			meta := a.fetcher.Fetch(ctx, strings.Join(args, " "))

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), meta)
			}
			if meta.IsEmpty() {
				writeLine(cmd, rt.catalog.Lookup(a.store.Snapshot().Language, "no_preview"))
				return nil
			}
			writePreview(cmd.OutOrStdout(), newStyles(cmd.OutOrStdout()), meta)
			return nil
		},
	}
}
