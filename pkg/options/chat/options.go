// Package chat provides configuration options for the chat pipeline.
package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/N1njakeks/echomind/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// DefaultPersonaPrompt is the system prompt sent with every generation.
const DefaultPersonaPrompt = `You are a patient study assistant. Answer the user's question using only the provided notes.
If the notes do not contain the answer, say so instead of guessing.
Keep answers concise and encouraging.`

// Options contains chat pipeline configuration.
type Options struct {
	// TopK is the number of notes fetched by similarity search.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// SimilarityThreshold filters out notes scoring below it. Cosine
	// similarity, so the useful range is 0.0-1.0.
	SimilarityThreshold float64 `json:"similarity-threshold" mapstructure:"similarity-threshold"`

	// ContextCharLimit caps the assembled context block, in runes.
	ContextCharLimit int `json:"context-char-limit" mapstructure:"context-char-limit"`

	// QuizTriggers are the substrings that switch a query into quiz mode.
	// Matched case-insensitively.
	QuizTriggers []string `json:"quiz-triggers" mapstructure:"quiz-triggers"`

	// PersonaPrompt is the system prompt for generation.
	PersonaPrompt string `json:"persona-prompt" mapstructure:"persona-prompt"`

	// QueryTimeout bounds one end-to-end chat request.
	QueryTimeout time.Duration `json:"query-timeout" mapstructure:"query-timeout"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		TopK:                3,
		SimilarityThreshold: 0.25,
		ContextCharLimit:    30000,
		QuizTriggers:        []string{"quiz"},
		PersonaPrompt:       DefaultPersonaPrompt,
		QueryTimeout:        60 * time.Second,
	}
}

// AddFlags adds flags for chat options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.TopK, options.Join(prefixes...)+"chat.top-k", o.TopK, "Number of notes fetched by similarity search.")
	fs.Float64Var(&o.SimilarityThreshold, options.Join(prefixes...)+"chat.similarity-threshold", o.SimilarityThreshold, "Minimum similarity score for a note to be used as context.")
	fs.IntVar(&o.ContextCharLimit, options.Join(prefixes...)+"chat.context-char-limit", o.ContextCharLimit, "Maximum context size in characters.")
	fs.StringSliceVar(&o.QuizTriggers, options.Join(prefixes...)+"chat.quiz-triggers", o.QuizTriggers, "Substrings that switch a query into quiz mode.")
	fs.StringVar(&o.PersonaPrompt, options.Join(prefixes...)+"chat.persona-prompt", o.PersonaPrompt, "System prompt for generation.")
	fs.DurationVar(&o.QueryTimeout, options.Join(prefixes...)+"chat.query-timeout", o.QueryTimeout, "End-to-end timeout for one chat request.")
}

// Validate validates the chat options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.TopK <= 0 {
		errs = append(errs, fmt.Errorf("chat.top-k must be positive"))
	}
	if o.SimilarityThreshold < 0 || o.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("chat.similarity-threshold must be in [0, 1]"))
	}
	if o.ContextCharLimit <= 0 {
		errs = append(errs, fmt.Errorf("chat.context-char-limit must be positive"))
	}
	if o.QueryTimeout <= 0 {
		errs = append(errs, fmt.Errorf("chat.query-timeout must be positive"))
	}
	for _, trigger := range o.QuizTriggers {
		if strings.TrimSpace(trigger) == "" {
			errs = append(errs, fmt.Errorf("chat.quiz-triggers must not contain empty entries"))
			break
		}
	}
	return errs
}

// Complete completes the chat options with defaults.
func (o *Options) Complete() error {
	if o.PersonaPrompt == "" {
		o.PersonaPrompt = DefaultPersonaPrompt
	}
	return nil
}
