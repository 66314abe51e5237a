package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/lockbox/internal/format"
	"github.com/spf13/cobra"
)

const hidden = "********"

func (a *App) showCommand() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show [ENTRY]",
		Short: "List entries, or one entry's fields",
		Long: `List every entry, or only ENTRY. Encrypted values are hidden
unless --reveal is given, which asks for the password.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fc, err := a.load(ctx)
			if err != nil {
				return err
			}
			if reveal {
				if err := a.unlock(ctx, fc); err != nil {
					return err
				}
			}

			if len(args) == 1 {
				idx, err := findEntry(fc, args[0])
				if err != nil {
					return err
				}
				return printEntry(a.out, fc.Entry(idx), reveal)
			}
			for i := 0; i < fc.NumEntries(); i++ {
				if err := printEntry(a.out, fc.Entry(i), reveal); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&reveal, "reveal", "r", false, "decrypt and show protected values")
	return cmd
}

func printEntry(w io.Writer, e format.EntryRef, reveal bool) error {
	fmt.Fprintf(w, "%s", e.Name())
	if tags := e.Tags(); len(tags) > 0 {
		fmt.Fprintf(w, " [%s]", strings.Join(tags, ", "))
	}
	fmt.Fprintf(w, "\n  last update: %s\n", e.LastUpdate().Local().Format(time.DateTime))

	for i := 0; i < e.NumFields(); i++ {
		f := e.Field(i)
		text := hidden
		switch {
		case f.Kind() == format.KindBasic || reveal:
			d, err := f.Value()
			if err != nil {
				return explain(fmt.Errorf("field %q: %w", f.Name(), err))
			}
			text = d.String()
		case f.Kind() == format.KindTotp:
			text = "(totp)"
		}
		fmt.Fprintf(w, "  %s: %s\n", f.Name(), text)
	}
	return nil
}
