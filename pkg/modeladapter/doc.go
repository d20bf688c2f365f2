// Package modeladapter defines the contract and shared plumbing for title
// providers.
//
// It contains:
//   - [TitleGenerator] interface implemented by every provider
//   - embeddable [ModelAdapter] base struct with HTTP helpers, auth, custom
//     headers, prompt building and title normalization
//   - [StatusError] and [RateLimitError] for non-2xx API responses
//
// Model configuration (name, max tokens) is inlined directly on the
// ModelAdapter struct. This package contains no provider-specific code;
// concrete adapters live in separate packages that import modeladapter.
package modeladapter
