package renamer

import "errors"

var (
	// ErrConfiguration marks errors caused by settings or environment that
	// abort the run before any document is processed.
	ErrConfiguration = errors.New("configuration error")
	// ErrMissingCredential is returned when the selected provider's required
	// credential is absent from both the environment and the settings.
	ErrMissingCredential = errors.New("missing credential")
	// ErrUnknownProvider is returned for a provider name with no registration.
	ErrUnknownProvider = errors.New("unknown provider")
)

// IsConfigurationError reports whether err should abort the run with a
// non-zero exit status.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrUnknownProvider)
}
