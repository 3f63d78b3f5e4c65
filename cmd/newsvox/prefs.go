package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nadzzz/newsvox/internal/config"
	"github.com/nadzzz/newsvox/internal/dispatch"
	"github.com/nadzzz/newsvox/internal/prefs"
)

func newPrefsCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect or reset saved language preferences",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print every saved preference",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withPrefs(f, func(store *prefs.Store) error {
					saved, err := store.All(cmd.Context())
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					for _, name := range prefNames {
						if v, ok := saved[name]; ok {
							fmt.Fprintf(out, "%s\t%s\n", name, v)
						}
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "get <name>",
			Short: "Print one saved preference",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPrefs(f, func(store *prefs.Store) error {
					v, ok, err := store.Get(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("preference %q is not set", args[0])
					}
					fmt.Fprintln(cmd.OutOrStdout(), v)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "reset [name...]",
			Short: "Forget saved preferences so configured defaults apply again",
			RunE: func(cmd *cobra.Command, args []string) error {
				names := args
				if len(names) == 0 {
					names = prefNames
				}
				return withPrefs(f, func(store *prefs.Store) error {
					for _, name := range names {
						if err := store.Delete(cmd.Context(), name); err != nil {
							return err
						}
					}
					return nil
				})
			},
		},
	)
	return cmd
}

// prefNames lists the keys the dispatcher writes.
var prefNames = []string{dispatch.PrefReadingLanguage, dispatch.PrefSpeakingLanguage}

func withPrefs(f *flags, fn func(*prefs.Store) error) error {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.Prefs.Enabled {
		return fmt.Errorf("preferences are disabled in the configuration")
	}
	store, err := prefs.Open(cfg.Prefs.Path)
	if err != nil {
		return fmt.Errorf("opening preferences: %w", err)
	}
	defer store.Close()
	return fn(store)
}
