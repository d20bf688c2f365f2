package main

import (
	"github.com/charmbracelet/huh"

	"github.com/germanamz/ngx-renamer/pkg/renamer"
	"github.com/germanamz/ngx-renamer/pkg/settings"
)

// Default prompt fragments written by init.
const (
	defaultMainPrompt = `You are a document title generator for a document management system. Generate a concise, descriptive title for the OCR-extracted text below.

Requirements:
- Title length: 50-100 characters (max 127)
- Language: Use the same language as the document
- Format: "Sender - Brief Description" (e.g., "Amazon - Monthly Subscription Invoice")
- Include sender/author only if clearly identifiable in the text
- Focus on document purpose and content, not formatting artifacts
- Avoid OCR noise, headers, footers, and page numbers
`
	defaultWithDatePrompt = `
Extract the document date and prefix the title with it in YYYY-MM-DD format.
If no date is found, use {current_date}.
Format: "YYYY-MM-DD Sender - Description"
`
	defaultNoDatePrompt = `
Do NOT include dates, timestamps, or date references in the title.
`
	defaultPreContent = `
Document text:
"""
`
	defaultPostContent = `
"""`
)

type wizardAnswers struct {
	Provider string
	Model    string
	BaseURL  string
	WithDate bool
}

// runWizard asks for the provider, model and date preference.
func runWizard() (wizardAnswers, error) {
	var a wizardAnswers

	regs := renamer.Providers()
	options := make([]huh.Option[string], 0, len(regs))
	for _, r := range regs {
		options = append(options, huh.NewOption(r.Display, r.Name))
	}

	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("LLM provider").
			Options(options...).
			Value(&a.Provider),
	)).Run(); err != nil {
		return a, err
	}

	reg, _ := renamer.Lookup(a.Provider)
	a.Model = reg.DefaultModel

	fields := []huh.Field{
		huh.NewInput().
			Title("Model").
			Description("Leave as is for the provider default").
			Value(&a.Model),
	}
	if reg.Credential == renamer.EnvOllamaURL {
		fields = append(fields, huh.NewInput().
			Title("Ollama base URL").
			Description("Leave empty to read " + renamer.EnvOllamaURL + " at run time").
			Placeholder("http://localhost:11434").
			Value(&a.BaseURL))
	}
	fields = append(fields, huh.NewConfirm().
		Title("Prefix titles with the document date?").
		Value(&a.WithDate))

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return a, err
	}

	return a, nil
}

// buildSettings turns wizard answers into a settings document with the
// default prompt block.
func buildSettings(a wizardAnswers) (*settings.Settings, error) {
	s := &settings.Settings{
		LLMProvider: a.Provider,
		WithDate:    a.WithDate,
		Prompt: &settings.Prompt{
			Main:        defaultMainPrompt,
			WithDate:    defaultWithDatePrompt,
			NoDate:      defaultNoDatePrompt,
			PreContent:  defaultPreContent,
			PostContent: defaultPostContent,
		},
	}

	block := settings.ProviderSettings{Model: a.Model, BaseURL: a.BaseURL}
	if block != (settings.ProviderSettings{}) {
		if err := s.SetProvider(a.Provider, block); err != nil {
			return nil, err
		}
	}

	return s, nil
}
