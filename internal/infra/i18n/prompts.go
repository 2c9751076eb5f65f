package i18n

import (
	"studysheet-ai-service/internal/domain/model"
)

// Prompts exposes the translator's generation prompts in the shape the
// orchestrator expects (usecase.PromptCatalog).
type Prompts struct {
	tr *Translator
}

func NewPrompts(tr *Translator) *Prompts { return &Prompts{tr: tr} }

func (p *Prompts) SystemPrompt() string { return p.tr.T("prompt_system") }

func (p *Prompts) UserPrompt(kind model.GenType, count int, subject, level, topic string) string {
	if kind == model.GenChapter {
		return p.tr.T("prompt_user_chapter", topic, subject, level)
	}
	out := p.tr.T("prompt_user_sheets", count, topic, subject, level)
	if count > 1 {
		out += " " + p.tr.T("prompt_marker_instruction")
	}
	return out
}

func (p *Prompts) HeadingMarker() string { return p.tr.T("sheet_marker") }
