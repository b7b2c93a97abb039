package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_Wrapped(t *testing.T) {
	base := New(KindUpstreamNotFound, "video not found", nil)
	wrapped := fmt.Errorf("resolve captions: %w", base)

	assert.Equal(t, KindUpstreamNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindUpstreamNotFound))
	assert.False(t, Is(wrapped, KindUpstreamGeneric))
}

func TestKindOf_Unclassified(t *testing.T) {
	assert.Equal(t, KindLocalUnexpected, KindOf(errors.New("boom")))
	assert.Equal(t, KindLocalUnexpected, KindOf(nil))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindMalformedRequest:      http.StatusBadRequest,
		KindInvalidVideoReference: http.StatusBadRequest,
		KindCaptionUnavailable:    http.StatusInternalServerError,
		KindUpstreamAuthOrQuota:   http.StatusInternalServerError,
		KindUpstreamNotFound:      http.StatusInternalServerError,
		KindUpstreamGeneric:       http.StatusInternalServerError,
		KindEmptyTranscript:       http.StatusInternalServerError,
		KindLocalUnexpected:       http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.HTTPStatus(), kind.Code())
	}
}

func TestError_MessageFallbacks(t *testing.T) {
	assert.Equal(t, "explicit", New(KindUpstreamGeneric, "explicit", errors.New("inner")).Error())
	assert.Equal(t, "inner", New(KindUpstreamGeneric, "", errors.New("inner")).Error())
	assert.Equal(t, "EMPTY_TRANSCRIPT", New(KindEmptyTranscript, "", nil).Error())

	inner := errors.New("inner")
	assert.ErrorIs(t, New(KindLocalUnexpected, "x", inner), inner)
}
