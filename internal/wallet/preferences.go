package wallet

import (
	"context"

	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/storage"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var ErrUnknownTheme = errors.New("unknown theme")

// Theme returns the stored UI theme, ThemeLight if none is stored.
func (s *Service) Theme(ctx context.Context) (string, error) {
	theme, err := storage.GetString(ctx, s.store, storage.KeyTheme)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ThemeLight, nil
		}
		return "", errors.Wrap(err, "failed to read theme")
	}

	return theme, nil
}

// SetTheme stores the UI theme. It survives Forget.
func (s *Service) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return ErrUnknownTheme
	}

	if err := storage.SetString(ctx, s.store, storage.KeyTheme, theme); err != nil {
		return errors.Wrap(err, "failed to store theme")
	}

	return nil
}
