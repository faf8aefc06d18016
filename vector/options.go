package vector

import (
	"github.com/viant/lexvec/changelog"
	"github.com/viant/lexvec/index"
	"github.com/viant/lexvec/index/bruteforce"
)

type options struct {
	changeLog    bool
	changeLogCfg changelog.Config
	newIndex     func() index.Index
	bucket       string
}

// Option configures a store.
type Option func(*options)

// WithChangeLog installs change-log triggers on the SQLite lexemes table.
// It has no effect on BoltStore.
func WithChangeLog(logTable string) Option {
	return func(o *options) {
		o.changeLog = true
		o.changeLogCfg = changelog.Config{Table: changelog.DefaultTable, LogTable: logTable}
	}
}

// WithIndex sets the index implementation BoltStore ranks with.
func WithIndex(factory func() index.Index) Option {
	return func(o *options) {
		if factory != nil {
			o.newIndex = factory
		}
	}
}

// WithBucket sets the bbolt bucket BoltStore keeps records in.
func WithBucket(name string) Option {
	return func(o *options) {
		if name != "" {
			o.bucket = name
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		newIndex: func() index.Index { return bruteforce.New() },
		bucket:   defaultBucket,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
