package vault

import (
	"fmt"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/dmitrijs2005/lockbox/internal/format"
	"github.com/dmitrijs2005/lockbox/internal/format/v02"
	"github.com/dmitrijs2005/lockbox/internal/format/v03"
	"github.com/dmitrijs2005/lockbox/internal/format/v04"
)

// Parse loads a store of any known generation. The warning is non-nil for
// generations that should be upgraded. The result is locked.
func Parse(data []byte) (format.FileContent, *format.Warning, error) {
	version, err := format.ProbeVersion(data)
	if err != nil {
		return nil, nil, err
	}

	switch version {
	case "":
		c, err := v02.ParseLegacy(data)
		return wrap(c, v02.LegacyWarning, err)
	case v02.Version:
		c, err := v02.Parse(data)
		return wrap(c, v02.Warning, err)
	case v03.Version:
		c, err := v03.Parse(data)
		return wrap(c, v03.Warning, err)
	case v04.Version:
		c, err := v04.Parse(data)
		return wrap(c, nil, err)
	default:
		return nil, nil, fmt.Errorf("%w: %q", common.ErrUnknownVersion, version)
	}
}

// wrap avoids returning a typed nil inside the interface.
func wrap[T format.FileContent](c T, w *format.Warning, err error) (format.FileContent, *format.Warning, error) {
	if err != nil {
		return nil, nil, err
	}
	return c, w, nil
}
