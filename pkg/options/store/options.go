// Package store provides note store configuration options.
package store

import (
	"fmt"

	"github.com/N1njakeks/echomind/pkg/options"
	milvusopts "github.com/N1njakeks/echomind/pkg/options/milvus"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Supported store drivers.
const (
	DriverMilvus = "milvus"
	DriverMemory = "memory"
)

// Options contains note store configuration.
type Options struct {
	// Driver selects the store backend (milvus, memory).
	Driver string `json:"driver" mapstructure:"driver"`

	// Collection is the collection name holding notes.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the dimension of note embedding vectors. Must match
	// the embedding model in use.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// Milvus holds the Milvus connection when Driver is milvus.
	Milvus *milvusopts.Options `json:"milvus" mapstructure:"milvus"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Driver:       DriverMilvus,
		Collection:   "echomind_notes",
		EmbeddingDim: 768,
		Milvus:       milvusopts.NewOptions(),
	}
}

// AddFlags adds flags for store options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Driver, options.Join(prefixes...)+"store.driver", o.Driver, "Note store backend (milvus, memory).")
	fs.StringVar(&o.Collection, options.Join(prefixes...)+"store.collection", o.Collection, "Collection name holding notes.")
	fs.IntVar(&o.EmbeddingDim, options.Join(prefixes...)+"store.embedding-dim", o.EmbeddingDim, "Embedding vector dimension.")

	if o.Milvus == nil {
		o.Milvus = milvusopts.NewOptions()
	}
	o.Milvus.AddFlags(fs, append(prefixes, "store")...)
}

// Validate validates the store options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	switch o.Driver {
	case DriverMilvus:
		errs = append(errs, o.Milvus.Validate()...)
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", o.Driver))
	}
	if o.Collection == "" {
		errs = append(errs, fmt.Errorf("store.collection is required"))
	}
	if o.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("store.embedding-dim must be positive"))
	}
	return errs
}

// Complete completes the store options with defaults.
func (o *Options) Complete() error {
	if o.Milvus == nil {
		o.Milvus = milvusopts.NewOptions()
	}
	return nil
}
