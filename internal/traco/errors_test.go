package traco

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *ParseError
		want string
	}{
		{
			&ParseError{Index: -1, Field: "rois", Reason: "missing key"},
			`parse: field "rois": missing key`,
		},
		{
			&ParseError{Source: "a.traco", Unit: "roi", Index: 3, Field: "z", Reason: "not an integer", Err: errors.New("0.5 is not an integer")},
			`parse a.traco: roi 3: field "z": not an integer: 0.5 is not an integer`,
		},
		{
			&ParseError{Unit: "row", Index: 0, Reason: "has 3 element(s), need exactly 4"},
			`parse: row 0: has 3 element(s), need exactly 4`,
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestErrorSentinels(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	var perr error = &ParseError{Index: -1, Reason: "bad", Err: inner}
	wrapped := fmt.Errorf("convert: %w", perr)

	assert.True(t, errors.Is(wrapped, ErrParse))
	assert.True(t, errors.Is(wrapped, inner))
	assert.False(t, errors.Is(wrapped, ErrIO))

	var ioErr error = &IOError{Op: "read", Path: "x.traco", Err: &fs.PathError{Op: "open", Path: "x.traco", Err: fs.ErrPermission}}
	assert.True(t, errors.Is(ioErr, ErrIO))
	assert.True(t, errors.Is(ioErr, fs.ErrPermission))
	assert.False(t, errors.Is(ioErr, ErrParse))
	assert.Equal(t, "read x.traco: permission denied", ioErr.Error())
}
