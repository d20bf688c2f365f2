package title

import (
	"errors"
	"strings"
	"time"

	"github.com/germanamz/ngx-renamer/pkg/settings"
)

// DatePlaceholder is replaced with the current date in the with_date fragment.
const DatePlaceholder = "{current_date}"

// DateLayout is the format the placeholder is replaced with.
const DateLayout = "2006-01-02"

var (
	// ErrNoSettings is returned when no settings were loaded.
	ErrNoSettings = errors.New("title: settings not loaded")
	// ErrNoPrompt is returned when the settings have no prompt block.
	ErrNoPrompt = errors.New("title: prompt settings not found")
)

// BuildPrompt assembles the prompt for text:
//
//	main + (with_date | no_date) + pre_content + text + post_content
//
// When with_date is enabled, DatePlaceholder in the with_date fragment is
// replaced by now formatted as YYYY-MM-DD.
func BuildPrompt(s *settings.Settings, text string, now time.Time) (string, error) {
	if s == nil {
		return "", ErrNoSettings
	}

	p := s.Prompt
	if p == nil || *p == (settings.Prompt{}) {
		return "", ErrNoPrompt
	}

	var b strings.Builder
	b.WriteString(p.Main)

	if s.WithDate {
		b.WriteString(strings.ReplaceAll(p.WithDate, DatePlaceholder, now.Format(DateLayout)))
	} else {
		b.WriteString(p.NoDate)
	}

	b.WriteString(p.PreContent)
	b.WriteString(text)
	b.WriteString(p.PostContent)

	return b.String(), nil
}
