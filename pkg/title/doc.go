// Package title holds the provider-independent half of title generation.
//
// It contains:
//   - [BuildPrompt]: assembles the prompt sent to every provider from the settings prompt block
//   - [ParseStructuredResponse]: decodes a provider's JSON payload and validates the title
//   - [Normalize]: the empty check and length limit, for providers that return decoded payloads
//   - [Schema]: the JSON Schema every provider is asked to conform to
//
// Nothing in this package performs I/O. Providers in
// [github.com/germanamz/ngx-renamer/pkg/providers] compose these helpers around
// their own transport.
package title
