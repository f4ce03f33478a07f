package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tOgg1/uplink/internal/models"
	"github.com/tOgg1/uplink/internal/state"
)

func newStateCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and change shared application state",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return writeState(cmd, rt, a.store.Snapshot())
		},
	}

	sidebar := &cobra.Command{
		Use:       "sidebar <show|hide|toggle>",
		Short:     "Show, hide or toggle the sidebar",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"show", "hide", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var action state.Action
			switch strings.ToLower(strings.TrimSpace(args[0])) {
			case "show":
				action = state.SetSidebarHidden{Hidden: false}
			case "hide":
				action = state.SetSidebarHidden{Hidden: true}
			case "toggle":
				action = state.ToggleSidebar{}
			default:
				return usageError(cmd, fmt.Sprintf("unknown sidebar action %q", args[0]))
			}
			return dispatch(cmd, rt, action)
		},
	}

	lang := &cobra.Command{
		Use:     "lang <language>",
		Aliases: []string{"language"},
		Short:   "Select the UI language",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language := models.Language(strings.TrimSpace(args[0]))
			if !rt.catalog.Has(language) {
				return Exitf(ExitCodeFailure, "unsupported language %q (available: %s)", language, joinLanguages(rt.catalog.Languages()))
			}
			return dispatch(cmd, rt, state.SetLanguage{Language: language})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Deselect the active conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, rt, state.ClearActiveConversation{})
		},
	}

	cmd.AddCommand(show, sidebar, lang, clearCmd)
	return cmd
}

func dispatch(cmd *cobra.Command, rt *runtime, action state.Action) error {
	a, err := rt.openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	a.store.Dispatch(action)
	if err := a.persister.SaveNow(); err != nil {
		return Exitf(ExitCodeFailure, "save state: %v", err)
	}
	return writeState(cmd, rt, a.store.Snapshot())
}

func writeState(cmd *cobra.Command, rt *runtime, s state.AppState) error {
	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), s)
	}

	st := newStyles(cmd.OutOrStdout())
	lang := s.Language
	active := st.Muted.Render(rt.catalog.Lookup(lang, "no_active_conversation"))
	if s.HasActiveConversation() {
		active = st.Accent.Render(s.ActiveConversation.String())
	}
	sidebar := rt.catalog.Lookup(lang, "sidebar_shown")
	if s.SidebarHidden {
		sidebar = rt.catalog.Lookup(lang, "sidebar_hidden")
	}

	return writeTable(cmd.OutOrStdout(), nil, [][]string{
		{st.Header.Render(rt.catalog.Lookup(lang, "active_conversation")), active},
		{st.Header.Render(rt.catalog.Lookup(lang, "sidebar")), sidebar},
		{st.Header.Render(rt.catalog.Lookup(lang, "language")), fmt.Sprintf("%s (%s)", rt.catalog.Name(lang), lang)},
	})
}

func joinLanguages(langs []models.Language) string {
	out := make([]string, len(langs))
	for i, l := range langs {
		out[i] = l.String()
	}
	return strings.Join(out, ", ")
}
