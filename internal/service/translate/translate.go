package translate

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"github.com/codewithdevelpors/hackorbit/internal/entity"
)

const (
	serviceName = "translate"
)

// Dictionary maps locale -> source term -> replacement. Terms absent from
// the table are returned verbatim; machine translation is out of scope.
type Dictionary map[string]map[string]string

type translateService struct {
	dict        Dictionary
	defaultLang string
	log         *slog.Logger
}

func NewTranslateService(dict Dictionary, defaultLang string, log *slog.Logger) *translateService {
	return &translateService{
		dict:        dict,
		defaultLang: defaultLang,
		log:         log.With(slog.String("service", serviceName)),
	}
}

// LoadDictionary reads a yaml dictionary file. A missing file yields an
// empty dictionary, which turns translation into a no-op.
func LoadDictionary(fs afero.Fs, path string) (Dictionary, error) {
	if path == "" {
		return Dictionary{}, nil
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read translations file %s: %w", path, err)
	}

	var dict Dictionary
	if err := yaml.Unmarshal(content, &dict); err != nil {
		return nil, fmt.Errorf("cannot parse translations file %s: %w", path, err)
	}

	return dict, nil
}

// Apply substitutes known vocabulary terms in place for the requested
// locale. The default locale and unknown locales leave files untouched.
func (s *translateService) Apply(files []*entity.File, lang string) {
	if lang == "" || lang == s.defaultLang {
		return
	}

	terms, ok := s.dict[lang]
	if !ok {
		return
	}

	for _, file := range files {
		file.Type = lookup(terms, file.Type)
		file.Category = lookup(terms, file.Category)
		file.ShortDescription = lookup(terms, file.ShortDescription)
	}
}

func lookup(terms map[string]string, src string) string {
	if dst, ok := terms[src]; ok {
		return dst
	}

	return src
}
