package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := GetNewPassword(a.out, "Please enter an encryption key: ")
			if err != nil {
				return err
			}
			n, err := a.vault.Init(cmd.Context(), a.cfg.StorePath, pw)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Generation successful! Wrote %d bytes to '%s'\n", n, a.cfg.StorePath)
			return nil
		},
	}
}
