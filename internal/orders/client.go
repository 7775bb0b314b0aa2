// Package orders submits finished orders to the commerce API and reads
// them back for the receipt page.
package orders

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrSubmitFailed  = errors.New("order submission failed")
)

type OrderItem struct {
	ProductID int64           `json:"produto_id"`
	Name      string          `json:"nome_produto"`
	UnitPrice decimal.Decimal `json:"preco_unitario"`
	Quantity  int             `json:"quantidade"`
}

// CreateOrderRequest is the POST /pedidos payload.
type CreateOrderRequest struct {
	CustomerName   string          `json:"nome_cliente"`
	CustomerPhone  string          `json:"telefone_cliente"`
	Address        string          `json:"endereco_completo"`
	DeliveryMethod string          `json:"metodo_entrega"`
	PaymentMethod  string          `json:"forma_pagamento"`
	CardType       string          `json:"tipo_cartao,omitempty"`
	Installments   int             `json:"parcelas"`
	Items          []OrderItem     `json:"itens_pedido"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Total          decimal.Decimal `json:"total_pedido"`
}

type Order struct {
	ID             int64           `json:"id"`
	CustomerName   string          `json:"nome_cliente"`
	CustomerPhone  string          `json:"telefone_cliente"`
	Address        string          `json:"endereco_completo"`
	DeliveryMethod string          `json:"metodo_entrega"`
	PaymentMethod  string          `json:"forma_pagamento"`
	CardType       string          `json:"tipo_cartao,omitempty"`
	Installments   int             `json:"parcelas"`
	Items          []OrderItem     `json:"itens_pedido"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Total          decimal.Decimal `json:"total_pedido"`
	CreatedAt      time.Time       `json:"created_at"`
}

type Client struct {
	http *resty.Client
	log  *logrus.Logger
}

func NewClient(baseURL string, httpClient *http.Client, log *logrus.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	rc := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")

	return &Client{http: rc, log: log}
}

// Create posts the order. It returns the created order, with the id the
// commerce API assigned, only on a 2xx acknowledgment.
func (c *Client) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var created Order

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&created).
		Post("/pedidos")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	if resp.IsError() {
		c.log.WithField("status", resp.StatusCode()).Error("order submission rejected")
		return nil, fmt.Errorf("%w: commerce api returned %d", ErrSubmitFailed, resp.StatusCode())
	}
	if created.ID == 0 {
		return nil, fmt.Errorf("%w: response carried no order id", ErrSubmitFailed)
	}

	return &created, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*Order, error) {
	var order Order

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&order).
		Get(fmt.Sprintf("/pedidos/%d", id))
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrOrderNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("commerce api returned %d", resp.StatusCode())
	}

	return &order, nil
}
