package reconciler

import (
	"strings"

	"github.com/agentstation/rostermap/pkg/authority"
	"github.com/agentstation/rostermap/pkg/errors"
)

type options struct {
	authorities authority.Authority
	tracking    bool
}

func defaultOptions() *options {
	return &options{
		authorities: authority.New(),
		tracking:    true,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithAuthorities replaces the field merge policy. The policy must let the
// stat feed supply the name, team, season stats and game log.
func WithAuthorities(authorities authority.Authority) Option {
	return func(o *options) error {
		if authorities == nil {
			return &errors.ValidationError{
				Field:   "authorities",
				Message: "cannot be nil",
			}
		}
		if missing := authority.Missing(authorities, authority.Stats, requiredStatPaths...); len(missing) > 0 {
			return &errors.ValidationError{
				Field:   "authorities",
				Value:   missing,
				Message: "stat feed must be a source for " + strings.Join(missing, ", "),
			}
		}
		o.authorities = authorities
		return nil
	}
}

// WithProvenance enables or disables field-level tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}
