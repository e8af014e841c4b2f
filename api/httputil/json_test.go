package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorized(t *testing.T) {
	cases := []struct {
		name   string
		token  string
		header string
		want   bool
	}{
		{"no token configured", "", "", true},
		{"matching bearer", "s3cret", "Bearer s3cret", true},
		{"missing header", "s3cret", "", false},
		{"wrong token", "s3cret", "Bearer s3cres", false},
		{"prefix only", "s3cret", "Bearer s3c", false},
		{"longer token", "s3cret", "Bearer s3cret2", false},
		{"wrong scheme", "s3cret", "Basic s3cret", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/selections", nil)
			if c.header != "" {
				r.Header.Set("Authorization", c.header)
			}
			assert.Equal(t, c.want, Authorized(r, c.token))
		})
	}
}
