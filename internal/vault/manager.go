// Package vault loads, saves and converts store files. It is what the
// command line talks to; the format packages never touch the file system.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/dmitrijs2005/lockbox/internal/filex"
	"github.com/dmitrijs2005/lockbox/internal/format"
	"github.com/dmitrijs2005/lockbox/internal/format/v04"
	"github.com/dmitrijs2005/lockbox/internal/logging"
)

type Manager struct {
	log logging.Logger
}

func NewManager(log logging.Logger) *Manager {
	return &Manager{log: log}
}

// Load reads and parses the store at path. The result is locked.
func (m *Manager) Load(ctx context.Context, path string) (format.FileContent, *format.Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read store: %w", err)
	}

	fc, warning, err := Parse(data)
	if err != nil {
		m.log.Error(ctx, "parse store failed", "path", path, "error", err)
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	log := m.log.With("path", path, "version", fc.Version())
	log.Debug(ctx, "store loaded", "entries", fc.NumEntries())
	if warning != nil {
		log.Warn(ctx, "outdated store format", "reason", warning.Reason)
	}
	return fc, warning, nil
}

// Save writes fc to path atomically and returns the number of bytes
// written. fc is marked saved only if the write succeeded.
func (m *Manager) Save(ctx context.Context, path string, fc format.FileContent) (int, error) {
	data, err := fc.Write()
	if err != nil {
		return 0, fmt.Errorf("serialize store: %w", err)
	}
	if err := filex.WriteFileAtomic(path, data); err != nil {
		m.log.Error(ctx, "save store failed", "path", path, "error", err)
		return 0, err
	}
	fc.MarkSaved()
	m.log.Info(ctx, "store saved", "path", path, "version", fc.Version(), "bytes", len(data))
	return len(data), nil
}

// Init creates an empty store at path. An existing file is left alone.
func (m *Manager) Init(ctx context.Context, path, password string) (int, error) {
	if _, err := os.Stat(path); err == nil {
		return 0, fmt.Errorf("%s: %w", path, common.ErrStoreExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return 0, err
	}

	fc, err := v04.MakeNew(password)
	if err != nil {
		return 0, err
	}
	return m.Save(ctx, path, fc)
}

// Open loads the store at path and unlocks it. Outdated stores stay in their
// own generation; see Upgrade.
func (m *Manager) Open(ctx context.Context, path, password string) (format.FileContent, *format.Warning, error) {
	fc, warning, err := m.Load(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := fc.SetKey(password); err != nil {
		m.log.Warn(ctx, "unlock failed", "path", path, "error", err)
		return nil, nil, err
	}
	return fc, warning, nil
}

// EmitPlaintext decrypts the store at in and writes its plaintext YAML to
// out.
func (m *Manager) EmitPlaintext(ctx context.Context, in, out, password string) (int, error) {
	fc, _, err := m.Open(ctx, in, password)
	if err != nil {
		return 0, err
	}
	pt, err := fc.ToPlaintext()
	if err != nil {
		return 0, err
	}
	data, err := format.MarshalPlaintext(pt)
	if err != nil {
		return 0, fmt.Errorf("serialize plaintext: %w", err)
	}
	if err := filex.WriteFileAtomic(out, data); err != nil {
		return 0, err
	}
	m.log.Info(ctx, "plaintext written", "from", in, "to", out, "entries", len(pt.Entries))
	return len(data), nil
}

// FromPlaintext encrypts the plaintext YAML at in into a new current-format
// store at out.
func (m *Manager) FromPlaintext(ctx context.Context, in, out, password string) (int, error) {
	data, err := os.ReadFile(in)
	if err != nil {
		return 0, fmt.Errorf("read plaintext: %w", err)
	}
	pt, err := format.UnmarshalPlaintext(data)
	if err != nil {
		return 0, err
	}
	fc, err := v04.FromPlaintext(pt, password)
	if err != nil {
		return 0, err
	}
	return m.Save(ctx, out, fc)
}

// Upgrade converts the store at in to the current format and writes it to
// out. in and out may be the same file.
func (m *Manager) Upgrade(ctx context.Context, in, out, password string) (int, error) {
	fc, _, err := m.Load(ctx, in)
	if err != nil {
		return 0, err
	}
	from := fc.Version()

	cur, err := fc.ToCurrent(password)
	if err != nil {
		return 0, err
	}
	m.log.Info(ctx, "store migrated", "from", from, "to", cur.Version())
	return m.Save(ctx, out, cur)
}

// ChangePassword re-encrypts the store at path under newPassword with fresh
// key material. Outdated stores are upgraded on the way.
func (m *Manager) ChangePassword(ctx context.Context, path, oldPassword, newPassword string) (int, error) {
	fc, _, err := m.Load(ctx, path)
	if err != nil {
		return 0, err
	}
	cur, err := fc.ToCurrent(oldPassword)
	if err != nil {
		return 0, err
	}
	pt, err := cur.ToPlaintext()
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	next, err := v04.FromPlaintext(pt, newPassword)
	if err != nil {
		return 0, err
	}
	m.log.Info(ctx, "password changed", "path", path)
	return m.Save(ctx, path, next)
}
