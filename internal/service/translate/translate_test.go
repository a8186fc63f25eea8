package translate

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/codewithdevelpors/hackorbit/internal/entity"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestApplySubstitutesKnownTerms(t *testing.T) {
	dict := Dictionary{
		"de": {"free": "kostenlos", "python": "Python-Skript"},
	}
	srv := NewTranslateService(dict, "en", newTestLogger())

	files := []*entity.File{
		{Type: "python", Category: "free", ShortDescription: "a snake game"},
	}
	srv.Apply(files, "de")

	require.Equal(t, "Python-Skript", files[0].Type)
	require.Equal(t, "kostenlos", files[0].Category)
	// Terms absent from the table stay verbatim.
	require.Equal(t, "a snake game", files[0].ShortDescription)
}

func TestApplyDefaultLocaleIsNoop(t *testing.T) {
	dict := Dictionary{
		"en": {"free": "should never apply"},
	}
	srv := NewTranslateService(dict, "en", newTestLogger())

	files := []*entity.File{{Category: "free"}}
	srv.Apply(files, "en")
	require.Equal(t, "free", files[0].Category)

	srv.Apply(files, "")
	require.Equal(t, "free", files[0].Category)
}

func TestApplyUnknownLocaleIsNoop(t *testing.T) {
	srv := NewTranslateService(Dictionary{}, "en", newTestLogger())

	files := []*entity.File{{Category: "free"}}
	srv.Apply(files, "fr")
	require.Equal(t, "free", files[0].Category)
}

func TestLoadDictionary(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "translations.yml", []byte(`
de:
  free: kostenlos
  paid: kostenpflichtig
fr:
  free: gratuit
`), 0644))

	dict, err := LoadDictionary(fs, "translations.yml")
	require.NoError(t, err)
	require.Equal(t, "kostenlos", dict["de"]["free"])
	require.Equal(t, "gratuit", dict["fr"]["free"])
}

func TestLoadDictionaryEmptyPath(t *testing.T) {
	dict, err := LoadDictionary(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	require.Empty(t, dict)
}

func TestLoadDictionaryMissingFile(t *testing.T) {
	_, err := LoadDictionary(afero.NewMemMapFs(), "nope.yml")
	require.Error(t, err)
}
