// Package app assembles and runs the echomind service.
package app

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"

	cacheopts "github.com/N1njakeks/echomind/pkg/options/cache"
	chatopts "github.com/N1njakeks/echomind/pkg/options/chat"
	llmopts "github.com/N1njakeks/echomind/pkg/options/llm"
	logopts "github.com/N1njakeks/echomind/pkg/options/logger"
	httpopts "github.com/N1njakeks/echomind/pkg/options/server/http"
	storeopts "github.com/N1njakeks/echomind/pkg/options/store"
	tracingopts "github.com/N1njakeks/echomind/pkg/options/tracing"
)

// Options contains all echomind service options.
type Options struct {
	// HTTP contains the HTTP server configuration.
	HTTP *httpopts.Options `json:"http" mapstructure:"http"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Store contains note store configuration.
	Store *storeopts.Options `json:"store" mapstructure:"store"`

	// Embedding configures the embedding provider.
	Embedding *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// Generation configures the chat provider.
	Generation *llmopts.ProviderOptions `json:"generation" mapstructure:"generation"`

	// Chat contains the chat pipeline tunables.
	Chat *chatopts.Options `json:"chat" mapstructure:"chat"`

	// Cache contains the answer cache configuration.
	Cache *cacheopts.Options `json:"cache" mapstructure:"cache"`

	// Tracing contains the OpenTelemetry tracing configuration.
	Tracing *tracingopts.Options `json:"tracing" mapstructure:"tracing"`
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return &Options{
		HTTP:       httpopts.NewOptions(),
		Log:        logopts.NewOptions(),
		Store:      storeopts.NewOptions(),
		Embedding:  llmopts.NewEmbeddingOptions(),
		Generation: llmopts.NewChatOptions(),
		Chat:       chatopts.NewOptions(),
		Cache:      cacheopts.NewOptions(),
		Tracing:    tracingopts.NewOptions(),
	}
}

// AddFlags adds all service flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.HTTP.AddFlags(fs)
	o.Log.AddFlags(fs)
	o.Store.AddFlags(fs)
	o.Embedding.AddFlags(fs, "embedding")
	o.Generation.AddFlags(fs, "generation")
	o.Chat.AddFlags(fs)
	o.Cache.AddFlags(fs)
	o.Tracing.AddFlags(fs)
}

// Validate validates all options.
func (o *Options) Validate() error {
	var errs []error
	errs = append(errs, o.HTTP.Validate()...)
	errs = append(errs, o.Store.Validate()...)
	errs = append(errs, o.Embedding.Validate()...)
	errs = append(errs, o.Generation.Validate()...)
	errs = append(errs, o.Chat.Validate()...)
	errs = append(errs, o.Cache.Validate()...)
	errs = append(errs, o.Tracing.Validate()...)
	if err := o.Log.Validate(); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

// Complete fills in derived defaults.
func (o *Options) Complete() error {
	if err := o.Embedding.Complete(); err != nil {
		return err
	}
	if err := o.Generation.Complete(); err != nil {
		return err
	}
	if err := o.Chat.Complete(); err != nil {
		return err
	}
	if err := o.Store.Complete(); err != nil {
		return err
	}
	if err := o.Cache.Complete(); err != nil {
		return err
	}
	return o.Tracing.Complete()
}

func joinErrors(errs []error) error {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(msgs, "; "))
}
