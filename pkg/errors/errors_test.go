package errors_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	pkgerrors "github.com/agentstation/rostermap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "league",
			ID:       "acb",
		}
		assert.Equal(t, "league with ID acb not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("snapshot", "acb_*.json")
		wrapped := fmt.Errorf("loading: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("code", "", "cannot be empty")
		assert.Equal(t, "validation failed for field code: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "no leagues configured"}
		assert.Equal(t, "validation failed: no leagues configured", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestMalformedInputError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewMalformedInputError("stats", 3, "name", "missing")
		assert.Equal(t, "malformed stats record #3: name: missing", err.Error())
		assert.True(t, pkgerrors.IsMalformedInput(err))
		assert.False(t, pkgerrors.IsFeedUnavailable(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := pkgerrors.NewMalformedInputError("directory", 0, "", "not an object")
		assert.Equal(t, "malformed directory record #0: not an object", err.Error())
	})

	t.Run("unwraps cause", func(t *testing.T) {
		cause := errors.New("bad json")
		err := &pkgerrors.MalformedInputError{Feed: "stats", Reason: "decode", Err: cause}
		assert.ErrorIs(t, err, cause)
	})
}

func TestFeedError(t *testing.T) {
	err := pkgerrors.NewFeedError("acb", "stats", "output/json/acb_american_stats_*.json", fs.ErrNotExist)
	assert.Contains(t, err.Error(), "stats feed for league acb unavailable")
	assert.Contains(t, err.Error(), "acb_american_stats_*.json")
	assert.True(t, pkgerrors.IsFeedUnavailable(err))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	noPath := pkgerrors.NewFeedError("bsl", "stats", "", errors.New("boom"))
	assert.Equal(t, "stats feed for league bsl unavailable: boom", noPath.Error())

	var fe *pkgerrors.FeedError
	wrapped := pkgerrors.NewLeagueError("acb", err)
	require.True(t, errors.As(wrapped, &fe))
	assert.Equal(t, "acb", fe.League)
	assert.Equal(t, "league acb: "+err.Error(), wrapped.Error())
}

func TestConfigError(t *testing.T) {
	cause := errors.New("duplicate code")
	err := pkgerrors.NewConfigError("leagues", "invalid league file", cause)
	assert.Equal(t, "configuration error in leagues: invalid league file", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := &pkgerrors.ConfigError{Message: "missing data dir"}
	assert.Equal(t, "configuration error: missing data dir", bare.Error())
}

func TestParseError(t *testing.T) {
	t.Run("with position", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "yaml", File: "leagues.yaml", Line: 4, Column: 2, Message: "bad indent"}
		assert.Equal(t, "parse error in yaml at leagues.yaml:4:2: bad indent", err.Error())
	})
	t.Run("with file", func(t *testing.T) {
		err := pkgerrors.NewParseError("json", "acb.json", "unexpected EOF", nil)
		assert.Equal(t, "parse error in json file acb.json: unexpected EOF", err.Error())
	})
	t.Run("bare", func(t *testing.T) {
		err := pkgerrors.NewParseError("json", "", "unexpected EOF", nil)
		assert.Equal(t, "json parse error: unexpected EOF", err.Error())
	})
}

func TestIOError(t *testing.T) {
	err := pkgerrors.NewIOError("write", "/tmp/x.json", fs.ErrPermission)
	assert.Contains(t, err.Error(), "IO error during write of /tmp/x.json")
	assert.ErrorIs(t, err, fs.ErrPermission)

	noPath := pkgerrors.NewIOError("glob", "", nil)
	assert.Equal(t, "IO error during glob: ", noPath.Error())
}

func TestWrapHelpers(t *testing.T) {
	tests := []struct {
		name string
		wrap func(error) error
		is   func(error) bool
	}{
		{"validation", func(e error) error { return pkgerrors.WrapValidation("season", e) }, pkgerrors.IsValidationError},
		{"feed", func(e error) error { return pkgerrors.WrapFeed("lnb", "stats", "", e) }, pkgerrors.IsFeedUnavailable},
		{"io", func(e error) error { return pkgerrors.WrapIO("read", "x", e) }, func(e error) bool {
			var io *pkgerrors.IOError
			return errors.As(e, &io)
		}},
		{"parse", func(e error) error { return pkgerrors.WrapParse("json", "x", e) }, func(e error) bool {
			var pe *pkgerrors.ParseError
			return errors.As(e, &pe)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, tt.wrap(nil))
			assert.True(t, tt.is(tt.wrap(errors.New("cause"))))
		})
	}
}

func TestIsCanceled(t *testing.T) {
	assert.True(t, pkgerrors.IsCanceled(pkgerrors.ErrCanceled))
	assert.True(t, pkgerrors.IsCanceled(pkgerrors.NewLeagueError("acb", context.Canceled)))
	assert.True(t, pkgerrors.IsCanceled(fmt.Errorf("loading: %w", context.DeadlineExceeded)))
	assert.False(t, pkgerrors.IsCanceled(pkgerrors.ErrFeedUnavailable))
	assert.False(t, pkgerrors.IsCanceled(nil))
}
