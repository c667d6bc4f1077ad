// Package options defines the generic options interface shared by all
// echomind configuration sections.
package options

import (
	"strings"

	"github.com/spf13/pflag"
)

// Join concatenates prefixes with "." and appends a trailing "." when the
// result is non-empty. Used to build flag names like "chat.top-k" or
// "prefix.chat.top-k".
func Join(prefixes ...string) string {
	joined := strings.Join(prefixes, ".")
	if joined != "" {
		joined += "."
	}
	return joined
}

// IOptions is implemented by every configuration section.
type IOptions interface {
	// Validate validates the options and returns all problems found.
	Validate() []error

	// AddFlags registers the section's flags on the given flagset.
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}
