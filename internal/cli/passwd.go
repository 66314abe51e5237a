package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) passwdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the store password",
		Long: `Re-encrypt the store under a new password. Outdated stores are
converted to the current file format on the way.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			old, err := GetPassword(a.out, "Please enter the current encryption key: ")
			if err != nil {
				return err
			}
			next, err := GetNewPassword(a.out, "Please enter the new encryption key: ")
			if err != nil {
				return err
			}
			n, err := a.vault.ChangePassword(cmd.Context(), a.cfg.StorePath, old, next)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Password changed; wrote %d bytes to '%s'\n", n, a.cfg.StorePath)
			return nil
		},
	}
}
