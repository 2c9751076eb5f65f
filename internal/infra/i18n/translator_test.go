//go:build !integration

package i18n

import (
	"strings"
	"testing"
	"testing/fstest"

	"studysheet-ai-service/internal/domain/model"
)

func TestTranslator(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/xx.yaml": &fstest.MapFile{Data: []byte(
			"greeting: \"bonjour %s\"\nplain: \"texte\"\n")},
	}

	t.Run("formats registered keys", func(t *testing.T) {
		tr, err := NewTranslator(fsys, "xx")
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		if got := tr.T("greeting", "monde"); got != "bonjour monde" {
			t.Errorf("T = %q", got)
		}
		if got := tr.T("plain"); got != "texte" {
			t.Errorf("T = %q", got)
		}
		if tr.Lang() != "xx" {
			t.Errorf("Lang = %q", tr.Lang())
		}
	})

	t.Run("unknown keys fall back to the key itself", func(t *testing.T) {
		tr, _ := NewTranslator(fsys, "xx")
		if got := tr.T("missing_key"); got != "missing_key" {
			t.Errorf("T = %q", got)
		}
	})

	t.Run("missing catalog is an error", func(t *testing.T) {
		if _, err := NewTranslator(fsys, "zz"); err == nil {
			t.Error("expected error for missing catalog")
		}
	})
}

func TestEmbeddedCatalogs(t *testing.T) {
	required := []string{
		"sheet_marker",
		"prompt_system",
		"prompt_user_sheets",
		"prompt_user_chapter",
		"prompt_marker_instruction",
		"quota_exceeded",
		"invalid_key",
		"unauthorized",
		"unknown_error",
	}
	for _, lang := range []string{"fr", "en"} {
		tr, err := NewTranslator(LocalesFS, lang)
		if err != nil {
			t.Fatalf("%s: %v", lang, err)
		}
		for _, key := range required {
			if tr.T(key) == key {
				t.Errorf("%s catalog misses %q", lang, key)
			}
		}
	}
}

func TestPrompts(t *testing.T) {
	tr, err := NewTranslator(LocalesFS, "fr")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}
	p := NewPrompts(tr)

	if p.HeadingMarker() != "Fiche" {
		t.Errorf("marker = %q", p.HeadingMarker())
	}
	if p.SystemPrompt() == "" || p.SystemPrompt() == "prompt_system" {
		t.Error("system prompt not resolved")
	}

	t.Run("multi-sheet prompt carries the structure instruction", func(t *testing.T) {
		got := p.UserPrompt(model.GenPack, 5, "Maths", "3e", "Les fractions")
		for _, want := range []string{"5", "Les fractions", "Maths", "3e", "# Fiche N"} {
			if !strings.Contains(got, want) {
				t.Errorf("pack prompt misses %q: %s", want, got)
			}
		}
	})

	t.Run("single-sheet prompt skips the structure instruction", func(t *testing.T) {
		got := p.UserPrompt(model.GenSingle, 1, "Maths", "3e", "Les fractions")
		if strings.Contains(got, "# Fiche N") {
			t.Errorf("single prompt carries the marker instruction: %s", got)
		}
	})

	t.Run("chapter prompt has its own template", func(t *testing.T) {
		got := p.UserPrompt(model.GenChapter, 3, "Maths", "3e", "Les fractions")
		if !strings.Contains(got, "chapitre") {
			t.Errorf("chapter prompt = %s", got)
		}
	})
}
