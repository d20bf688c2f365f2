// Package providers groups the title generators for each LLM backend.
//
// It is organized into sub-packages, one per API:
//   - [github.com/germanamz/ngx-renamer/pkg/providers/openai]: OpenAI Chat Completions with json_schema response format
//   - [github.com/germanamz/ngx-renamer/pkg/providers/ollama]: Ollama /api/chat with a schema format, optional bearer key
//   - [github.com/germanamz/ngx-renamer/pkg/providers/anthropic]: Anthropic Messages with a forced document_title tool call
//   - [github.com/germanamz/ngx-renamer/pkg/providers/grok]: xAI Grok through the OpenAI-compatible endpoint
//   - [github.com/germanamz/ngx-renamer/pkg/providers/gemini]: Google Gemini generateContent with a response JSON schema
//
// Every adapter embeds [github.com/germanamz/ngx-renamer/pkg/modeladapter.ModelAdapter]
// and implements its TitleGenerator interface. Selection by name lives in
// the renamer package.
package providers
