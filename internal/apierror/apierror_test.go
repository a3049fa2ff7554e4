package apierror

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromResponseMessagePreference(t *testing.T) {
	e := FromResponse(409, []byte(`{"message":"msg wins","detail":"detail loses","code":"CONFLICT"}`))
	assert.Equal(t, "msg wins", e.Message)
	assert.Equal(t, CodeConflict, e.Code)

	e = FromResponse(404, []byte(`{"detail":"detail used"}`))
	assert.Equal(t, "detail used", e.Message)
	assert.Equal(t, CodeUnknown, e.Code)

	e = FromResponse(500, []byte(`plain text body`))
	assert.Equal(t, "plain text body", e.Message)

	e = FromResponse(502, nil)
	assert.Equal(t, "Bad Gateway", e.Message, "empty body falls back to the status text")
}

func TestKindPrefersCodeOverStatus(t *testing.T) {
	// Backend answered 400 but the code is authoritative
	e := New(400, CodeInvalidState, "closed")
	assert.Equal(t, KindInvalidState, e.Kind())

	// Without a recognized code, the status class decides
	assert.Equal(t, KindConflict, New(409, CodeUnknown, "x").Kind())
	assert.Equal(t, KindNotFound, New(404, CodeUnknown, "x").Kind())
	assert.Equal(t, KindValidation, New(422, CodeUnknown, "x").Kind())
	assert.Equal(t, KindConnection, New(0, CodeUnknown, "x").Kind())
	assert.Equal(t, KindUnknown, New(500, CodeUnknown, "x").Kind())
}

func TestLocalCodesAreValidation(t *testing.T) {
	for _, code := range []string{CodeNoBusiness, CodeNoOpenSession, CodeUsage, CodeValidation} {
		assert.Equal(t, KindValidation, NewValidation(code, "x").Kind(), code)
	}
}

func TestErrorStringAndAs(t *testing.T) {
	e := New(409, CodeConflict, "already open")
	assert.Equal(t, "[CONFLICT] already open", e.Error())

	wrapped := fmt.Errorf("open session: %w", e)
	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, got.Code)
	assert.Equal(t, KindConflict, KindOf(wrapped))

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
	assert.Equal(t, KindUnknown, KindOf(fmt.Errorf("plain")))
}
