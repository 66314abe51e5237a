package cli

import (
	"fmt"

	"github.com/dmitrijs2005/lockbox/internal/format/v04"
	"github.com/spf13/cobra"
)

func (a *App) updateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update INPUT [OUTPUT]",
		Short: "Convert a store to the current file format",
		Long: `Re-encrypt INPUT in the current file format with fresh key material.
OUTPUT defaults to INPUT.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[0]
			if len(args) == 2 {
				out = args[1]
			}

			pw, err := GetPassword(a.out, "Please enter the encryption key: ")
			if err != nil {
				return err
			}
			n, err := a.vault.Upgrade(cmd.Context(), in, out, pw)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Updated to %s; wrote %d bytes to '%s'\n", v04.Version, n, out)
			return nil
		},
	}
}
