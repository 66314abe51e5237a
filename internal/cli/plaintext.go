package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) emitPlaintextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "emit-plaintext INPUT OUTPUT",
		Short: "Decrypt a store into plaintext YAML",
		Long: `Decrypt every value of INPUT and write the result to OUTPUT as YAML.

OUTPUT holds all secrets unencrypted; delete it when done.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := GetPassword(a.out, "Please enter the current encryption key: ")
			if err != nil {
				return err
			}
			n, err := a.vault.EmitPlaintext(cmd.Context(), args[0], args[1], pw)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Wrote plaintext (%d bytes) to '%s'\n", n, args[1])
			return nil
		},
	}
}

func (a *App) fromPlaintextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "from-plaintext INPUT OUTPUT",
		Short: "Encrypt plaintext YAML into a new store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := GetNewPassword(a.out, "Please enter a new encryption key: ")
			if err != nil {
				return err
			}
			n, err := a.vault.FromPlaintext(cmd.Context(), args[0], args[1], pw)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Successfully wrote new encrypted file (%d bytes) to '%s'\n", n, args[1])
			return nil
		},
	}
}
