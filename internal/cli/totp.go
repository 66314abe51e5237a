package cli

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/lockbox/internal/format"
	"github.com/spf13/cobra"
)

// after is a test seam for time.After.
var after = time.After

func (a *App) totpCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "totp ENTRY FIELD",
		Short: "Print the current TOTP code of a field",
		Long:  `Print the current code. With --watch a new code is printed each period until interrupted.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fc, err := a.load(ctx)
			if err != nil {
				return err
			}
			idx, err := findEntry(fc, args[0])
			if err != nil {
				return err
			}
			pos, ok := findField(fc.Entry(idx), args[1])
			if !ok {
				return fmt.Errorf("entry %q has no field %q", args[0], args[1])
			}
			f := fc.Entry(idx).Field(pos)
			if f.Kind() != format.KindTotp {
				return fmt.Errorf("field %q is not a TOTP field", args[1])
			}
			if err := a.unlock(ctx, fc); err != nil {
				return err
			}

			for {
				d, err := f.Value()
				if err != nil {
					return explain(err)
				}
				fmt.Fprintln(a.out, d)
				if !watch {
					return nil
				}

				select {
				case <-ctx.Done():
					return nil
				case <-after(d.Remaining):
				}
			}
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep printing new codes")
	return cmd
}
