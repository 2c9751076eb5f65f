package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

// Translator resolves message keys to user-facing text in one language.
// Catalogs carry error messages, the generation prompts and the unit
// heading marker, so everything the end user (or the provider) reads
// comes from one place.
type Translator struct {
	lang         string
	translations map[string]string
}

func NewTranslator(fsys fs.FS, langCode string) (*Translator, error) {
	filePath := fmt.Sprintf("locales/%s.yaml", langCode)

	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation file %s: %w", filePath, err)
	}

	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation file: %w", err)
	}

	return &Translator{lang: langCode, translations: translations}, nil
}

// T (Translate) formats the message registered under key; unknown keys
// fall back to the key itself.
func (t *Translator) T(key string, args ...interface{}) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

func (t *Translator) Lang() string { return t.lang }
