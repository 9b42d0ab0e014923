package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/streamdash/streamdash-server/internal/errors"
	"github.com/streamdash/streamdash-server/internal/validation"
)

type searchRequest struct {
	Query     string   `json:"q" validate:"required,max=200"`
	Limit     int      `json:"limit" validate:"gte=1,lte=100"`
	Platforms []string `json:"platforms" validate:"dive,platform"`
}

func newValidator(t *testing.T) *validation.Validator {
	t.Helper()
	v := validation.New()
	require.NoError(t, v.RegisterDomain("platform", []string{"Netflix", "Disney+", "Amazon Prime"}))
	return v
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := newValidator(t)

	for _, req := range []searchRequest{
		{Query: "love", Limit: 10},
		{Query: "love", Limit: 10, Platforms: []string{}},
		{Query: "love", Limit: 100, Platforms: []string{"Disney+", "Amazon Prime"}},
	} {
		assert.NoError(t, v.Validate(req))
	}
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name      string
		req       searchRequest
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing query",
			req:       searchRequest{Limit: 10},
			wantField: "q",
			wantMsg:   "is required",
		},
		{
			name:      "limit too large",
			req:       searchRequest{Query: "x", Limit: 500},
			wantField: "limit",
			wantMsg:   "must be less than or equal to 100",
		},
		{
			name:      "unknown platform",
			req:       searchRequest{Query: "x", Limit: 5, Platforms: []string{"Netflix", "Hulu"}},
			wantField: "platforms[1]",
			wantMsg:   `unknown platform "Hulu"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_RegisterDomainTwiceReplaces(t *testing.T) {
	v := newValidator(t)
	require.NoError(t, v.RegisterDomain("platform", []string{"Hulu"}))

	assert.NoError(t, v.Validate(searchRequest{Query: "x", Limit: 1, Platforms: []string{"Hulu"}}))
}
