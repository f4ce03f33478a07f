package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tOgg1/uplink/internal/models"
	"github.com/tOgg1/uplink/internal/msgview"
)

func newRenderCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [message...]",
		Short: "Render messages with markup and link previews",
		Long: "Render each argument as one message (or stdin as a single message) and print the\n" +
			"sanitized markup, detected links and link preview for each.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, rt, args)
		},
	}
	cmd.Flags().String("sender", "", "Sender of the messages (default: local identity)")
	cmd.Flags().Duration("wait", 10*time.Second, "How long to wait for link previews (0 renders without waiting)")
	return cmd
}

func runRender(cmd *cobra.Command, rt *runtime, args []string) error {
	texts := args
	if len(texts) == 0 {
		data, err := readStdinIfPiped()
		if err != nil {
			return Exitf(ExitCodeFailure, "read stdin: %v", err)
		}
		if strings.TrimSpace(data) == "" {
			return usageError(cmd, "provide a message argument or pipe one on stdin")
		}
		texts = []string{data}
	}

	a, err := rt.openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sender := a.identity.Peer
	if s, _ := cmd.Flags().GetString("sender"); strings.TrimSpace(s) != "" {
		sender = models.PeerID(strings.TrimSpace(s))
	}

	now := time.Now()
	msgs := make([]models.Message, 0, len(texts))
	for i, text := range texts {
		msgs = append(msgs, models.NewTextMessage(sender, text, now.Add(time.Duration(i)*time.Millisecond)))
	}

	wait, _ := cmd.Flags().GetDuration("wait")
	var views []msgview.View
	if wait > 0 {
		ctx, cancel := context.WithTimeout(cmd.Context(), wait)
		defer cancel()
		views = a.assembler.Assemble(ctx, msgs)
	} else {
		views = a.assembler.Snapshot(cmd.Context(), msgs)
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), views)
	}
	writeViews(cmd.OutOrStdout(), views)
	return nil
}

func writeViews(out io.Writer, views []msgview.View) {
	st := newStyles(out)
	for i, v := range views {
		if i > 0 {
			fmt.Fprintln(out)
		}
		header := v.Message.Sender.String()
		if v.Timestamp != "" {
			header += " " + st.Muted.Render(v.Timestamp)
		}
		fmt.Fprintln(out, st.Header.Render(header))
		fmt.Fprintln(out, strings.TrimSpace(v.Markup))
		for _, link := range v.Links {
			fmt.Fprintf(out, "  %s %s\n", st.Muted.Render("link"), st.Accent.Render(link))
		}
		if !v.Preview.IsEmpty() {
			writePreview(out, st, v.Preview)
		}
	}
}

func writePreview(out io.Writer, st styles, meta models.SiteMeta) {
	fmt.Fprintf(out, "  %s %s\n", st.Muted.Render("title"), meta.Title)
	if meta.Description != "" {
		fmt.Fprintf(out, "  %s %s\n", st.Muted.Render("description"), meta.Description)
	}
	if meta.HasFavicon() {
		fmt.Fprintf(out, "  %s %s\n", st.Muted.Render("favicon"), meta.Favicon)
	}
	if meta.URL != "" {
		fmt.Fprintf(out, "  %s %s\n", st.Muted.Render("url"), meta.URL)
	}
}

func readStdinIfPiped() (string, error) {
	info, err := os.Stdin.Stat()
	if err != nil {
		return "", err
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
