package postal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ws/64600000/json/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"cep":        "64600-000",
			"logradouro": "Rua das Flores",
			"bairro":     "Centro",
			"localidade": "Picos",
			"uf":         "PI",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	addr, err := client.Lookup(context.Background(), "64600-000")

	require.NoError(t, err)
	assert.Equal(t, "Rua das Flores", addr.Street)
	assert.Equal(t, "Centro", addr.Neighborhood)
	assert.Equal(t, "Picos", addr.City)
	assert.Equal(t, "PI", addr.State)
}

func TestLookup_UnknownCEP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"erro": true})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Lookup(context.Background(), "99999999")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookup_InvalidInput(t *testing.T) {
	client := NewClient("http://unused", nil)

	for _, cep := range []string{"", "123", "123456789", "abcdefgh"} {
		_, err := client.Lookup(context.Background(), cep)
		assert.ErrorIs(t, err, ErrInvalidCEP, "cep %q", cep)
	}
}
