package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/dmitrijs2005/lockbox/internal/format"
	"github.com/dmitrijs2005/lockbox/internal/vault"
	"github.com/fatih/color"
)

var warnColor = color.New(color.FgYellow, color.Bold)

func (a *App) warn(w *format.Warning) {
	if w != nil {
		warnColor.Fprintf(a.errOut, "warning: %s\n", w)
	}
}

// load reads the configured store without unlocking it.
func (a *App) load(ctx context.Context) (format.FileContent, error) {
	fc, w, err := a.vault.Load(ctx, a.cfg.StorePath)
	if err != nil {
		return nil, err
	}
	a.warn(w)
	return fc, nil
}

// unlock prompts for the password and derives the key in the background
// so an interrupt is honoured while it runs.
func (a *App) unlock(ctx context.Context, fc format.FileContent) error {
	pw, err := GetPassword(a.out, "Please enter the encryption key: ")
	if err != nil {
		return err
	}

	u := vault.NewUnlocker(fc)
	if err := u.Start(pw); err != nil {
		return err
	}
	if err := u.Wait(ctx); err != nil {
		u.Abandon()
		return explain(err)
	}
	return nil
}

func (a *App) save(ctx context.Context, fc format.FileContent) error {
	n, err := a.vault.Save(ctx, a.cfg.StorePath, fc)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d bytes to '%s'\n", n, a.cfg.StorePath)
	return nil
}

func findEntry(fc format.FileContent, name string) (int, error) {
	for i := 0; i < fc.NumEntries(); i++ {
		if fc.Entry(i).Name() == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("no entry named %q", name)
}

func findField(e format.EntryRef, name string) (int, bool) {
	for i := 0; i < e.NumFields(); i++ {
		if e.Field(i).Name() == name {
			return i, true
		}
	}
	return e.NumFields(), false
}

// explain turns engine errors into something a user can act on.
func explain(err error) error {
	switch {
	case errors.Is(err, common.ErrBadCrypt), errors.Is(err, common.ErrBadUTF8):
		return fmt.Errorf("wrong decryption key: %w", err)
	case errors.Is(err, common.ErrUnsupportedTotp):
		return fmt.Errorf("%w; run the update subcommand first", err)
	default:
		return err
	}
}
