package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/cartstore/pkg/errors"
)

type sampleBody struct {
	Name     string     `json:"name" validate:"required,max=10"`
	Quantity LooseValue `json:"quantity"`
}

func TestDecodeJSONBodyAcceptsLooseValues(t *testing.T) {
	for raw, want := range map[string]LooseValue{
		`{"name":"lamp","quantity":2}`:     "2",
		`{"name":"lamp","quantity":"2.7"}`: "2.7",
		`{"name":"lamp","quantity":"abc"}`: "abc",
		`{"name":"lamp","quantity":null}`:  "",
		`{"name":"lamp"}`:                  "",
	} {
		var body sampleBody
		req := httptest.NewRequest("POST", "/", strings.NewReader(raw))
		require.NoError(t, DecodeJSONBody(req, &body), raw)
		assert.Equal(t, want, body.Quantity, raw)
	}
}

func TestDecodeJSONBodyRejectsInvalidInput(t *testing.T) {
	cases := []string{
		`{"name":"","quantity":1}`,
		`{"name":"far too long a name","quantity":1}`,
		`{"name":"lamp","extra":true}`,
		`{"name":"lamp","quantity":[1]}`,
		`not json`,
	}
	for _, raw := range cases {
		var body sampleBody
		req := httptest.NewRequest("POST", "/", strings.NewReader(raw))
		err := DecodeJSONBody(req, &body)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "%s: %v", raw, err)
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Desk", SanitizeString("  Desk Lamp ", 4))
	assert.Equal(t, "Desk Lamp", SanitizeString("  Desk Lamp ", 0))
}
