package cli

import (
	"fmt"

	"github.com/dmitrijs2005/lockbox/internal/format"
	"github.com/spf13/cobra"
)

func (a *App) addEntryCommand() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "add-entry NAME",
		Short: "Add an empty entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fc, err := a.load(ctx)
			if err != nil {
				return err
			}
			if _, err := findEntry(fc, args[0]); err == nil {
				return fmt.Errorf("entry %q already exists", args[0])
			}

			idx := fc.AddEmptyEntry(args[0])
			if len(tags) > 0 {
				fc.EntryMut(idx).SetTags(tags)
			}
			return a.save(ctx, fc)
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag (repeatable)")
	return cmd
}

type fieldFlags struct {
	value     string
	protected bool
	totp      bool
	issuer    string
}

func (a *App) setFieldCommand() *cobra.Command {
	var ff fieldFlags

	cmd := &cobra.Command{
		Use:   "set-field ENTRY FIELD",
		Short: "Add a field to an entry or replace it",
		Long: `Set FIELD of ENTRY. Without --value the value is prompted for;
protected values and TOTP secrets are read without echo.`,
		Args: cobra.ExactArgs(2),
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

			e := fc.EntryMut(idx)
			b := e.FieldBuilder()
			if ff.totp {
				if err := b.MakeTotp(); err != nil {
					return explain(err)
				}
			}

			value, err := a.fieldValue(cmd, ff)
			if err != nil {
				return err
			}
			b.SetName(args[1])
			b.SetValue(value)

			if ff.protected || ff.totp {
				if err := a.unlock(ctx, fc); err != nil {
					return err
				}
			}

			pos, _ := findField(e, args[1])
			if err := e.SetField(pos, b); err != nil {
				return explain(err)
			}
			return a.save(ctx, fc)
		},
	}

	f := cmd.Flags()
	f.StringVar(&ff.value, "value", "", "field value")
	f.BoolVarP(&ff.protected, "protected", "p", false, "encrypt the value")
	f.BoolVar(&ff.totp, "totp", false, "store a base32 TOTP secret")
	f.StringVar(&ff.issuer, "issuer", "", "TOTP issuer")
	cmd.MarkFlagsMutuallyExclusive("protected", "totp")
	return cmd
}

func (a *App) fieldValue(cmd *cobra.Command, ff fieldFlags) (format.PlaintextValue, error) {
	text := ff.value
	if !cmd.Flags().Changed("value") {
		var err error
		if ff.protected || ff.totp {
			text, err = GetPassword(a.out, "Value: ")
		} else {
			text, err = GetSimpleText(a.in, "Value:", a.out)
		}
		if err != nil {
			return format.PlaintextValue{}, err
		}
	}

	if ff.totp {
		return format.TotpValue(ff.issuer, text), nil
	}
	return format.ManualValue(text, ff.protected), nil
}

func (a *App) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ENTRY [FIELD]",
		Short: "Remove an entry, or one field of it",
		Args:  cobra.RangeArgs(1, 2),
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

			if len(args) == 1 {
				fc.RemoveEntry(idx)
				return a.save(ctx, fc)
			}

			e := fc.EntryMut(idx)
			pos, ok := findField(e, args[1])
			if !ok {
				return fmt.Errorf("entry %q has no field %q", args[0], args[1])
			}
			e.RemoveField(pos)
			return a.save(ctx, fc)
		},
	}
}
