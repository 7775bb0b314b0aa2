// Package postal looks up delivery addresses by CEP (Brazilian postal
// code) so the checkout form can be autofilled.
package postal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://viacep.com.br"

var (
	ErrInvalidCEP = errors.New("cep must have 8 digits")
	ErrNotFound   = errors.New("cep not found")
)

type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
}

type viaCEPResponse struct {
	Address
	Erro bool `json:"erro"`
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	rc := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second)

	return &Client{http: rc}
}

// Lookup resolves a CEP to an address. Non-digit characters are stripped
// before validation, so "64600-000" and "64600000" are equivalent.
func (c *Client) Lookup(ctx context.Context, cep string) (*Address, error) {
	digits := onlyDigits(cep)
	if len(digits) != 8 {
		return nil, ErrInvalidCEP
	}

	var result viaCEPResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/ws/%s/json/", digits))
	if err != nil {
		return nil, fmt.Errorf("cep lookup failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cep lookup returned %d", resp.StatusCode())
	}
	if result.Erro {
		return nil, ErrNotFound
	}

	return &result.Address, nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
