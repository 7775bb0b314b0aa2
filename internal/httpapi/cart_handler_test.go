package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Renanlucass/loja-virtual/internal/catalog"
	"github.com/Renanlucass/loja-virtual/internal/domain"
)

type CartServiceMock struct {
	cart    *domain.Cart
	err     error
	lastOp  string
	addedBy domain.CartLine
}

func (m *CartServiceMock) GetCart(context.Context, string) (*domain.Cart, error) {
	m.lastOp = "get"
	return m.cart, m.err
}

func (m *CartServiceMock) AddItem(_ context.Context, _ string, line domain.CartLine) (*domain.Cart, error) {
	m.lastOp = "add"
	m.addedBy = line
	return m.cart, m.err
}

func (m *CartServiceMock) UpdateQuantity(context.Context, string, int64, int) (*domain.Cart, error) {
	m.lastOp = "update"
	return m.cart, m.err
}

func (m *CartServiceMock) RemoveItem(context.Context, string, int64) (*domain.Cart, error) {
	m.lastOp = "remove"
	return m.cart, m.err
}

func (m *CartServiceMock) ClearCart(context.Context, string) error {
	m.lastOp = "clear"
	return m.err
}

type ProductFetcherMock struct {
	product *catalog.Product
	err     error
}

func (m *ProductFetcherMock) GetProduct(context.Context, int64) (*catalog.Product, error) {
	return m.product, m.err
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func withSession(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), "session_id", "sess-test")
	return r.WithContext(ctx)
}

func TestGetCart_ReturnsCart(t *testing.T) {
	cart := domain.NewCart("sess-test")
	cart.AddLine(domain.CartLine{ProductID: 1, Name: "Laço", UnitPrice: decimal.RequireFromString("9.90"), Quantity: 2})

	handler := NewCartHandler(&CartServiceMock{cart: cart}, &ProductFetcherMock{}, discardLogger())
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("GET", "/api/v1/cart", nil))

	handler.GetCart(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var got domain.Cart
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
	assert.Equal(t, "sess-test", got.SessionID)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 2, got.Lines[0].Quantity)
}

func TestAddItem_UsesCatalogPrice(t *testing.T) {
	cart := domain.NewCart("sess-test")
	carts := &CartServiceMock{cart: cart}
	products := &ProductFetcherMock{product: &catalog.Product{
		ID:       7,
		Name:     "Bolsa Coral",
		Price:    decimal.RequireFromString("59.90"),
		ImageURL: "https://cdn.example.com/bolsa.jpg",
		Stock:    4,
	}}

	handler := NewCartHandler(carts, products, discardLogger())
	recorder := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"produto_id": 7, "quantidade": 2, "preco": "0.01"}`)
	request := withSession(httptest.NewRequest("POST", "/api/v1/cart/items", body))

	handler.AddItem(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "add", carts.lastOp)
	assert.Equal(t, int64(7), carts.addedBy.ProductID)
	assert.Equal(t, 2, carts.addedBy.Quantity)
	assert.Equal(t, "Bolsa Coral", carts.addedBy.Name)
	assert.True(t, carts.addedBy.UnitPrice.Equal(decimal.RequireFromString("59.90")),
		"line price must come from the catalog, not the request body")
}

func TestAddItem_UnknownProduct(t *testing.T) {
	handler := NewCartHandler(
		&CartServiceMock{cart: domain.NewCart("sess-test")},
		&ProductFetcherMock{err: catalog.ErrNotFound},
		discardLogger(),
	)
	recorder := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"produto_id": 99}`)
	request := withSession(httptest.NewRequest("POST", "/api/v1/cart/items", body))

	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAddItem_InvalidBody(t *testing.T) {
	handler := NewCartHandler(&CartServiceMock{}, &ProductFetcherMock{}, discardLogger())
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewBufferString("{")))

	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAddItem_RejectsNonPositiveProductID(t *testing.T) {
	handler := NewCartHandler(&CartServiceMock{}, &ProductFetcherMock{}, discardLogger())
	recorder := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"produto_id": 0, "quantidade": 1}`)
	request := withSession(httptest.NewRequest("POST", "/api/v1/cart/items", body))

	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUpdateQuantity_ThroughRouter(t *testing.T) {
	cart := domain.NewCart("sess-test")
	carts := &CartServiceMock{cart: cart}
	router := NewRouter(
		NewCartHandler(carts, &ProductFetcherMock{}, discardLogger()),
		NewCheckoutHandler(&CheckoutServiceMock{}, discardLogger()),
		NewCatalogHandler(&CatalogMock{}, &OrderReaderMock{}, &PostalMock{}, discardLogger()),
		time.Minute,
	)

	body := bytes.NewBufferString(`{"quantidade": 0}`)
	request := httptest.NewRequest("PUT", "/api/v1/cart/items/7", body)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "update", carts.lastOp)
}

func TestClearCart(t *testing.T) {
	carts := &CartServiceMock{cart: domain.NewCart("sess-test")}
	handler := NewCartHandler(carts, &ProductFetcherMock{}, discardLogger())
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("DELETE", "/api/v1/cart", nil))

	handler.ClearCart(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "clear", carts.lastOp)
}

func TestSessionMiddleware_SetsCookie(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getSessionID(r.Context())
	})

	recorder := httptest.NewRecorder()
	SessionMiddleware(next).ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	require.NotEmpty(t, seen)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSessionMiddleware_ReusesCookie(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getSessionID(r.Context())
	})

	request := httptest.NewRequest("GET", "/", nil)
	request.AddCookie(&http.Cookie{Name: sessionCookie, Value: "existing-session"})
	recorder := httptest.NewRecorder()
	SessionMiddleware(next).ServeHTTP(recorder, request)

	assert.Equal(t, "existing-session", seen)
	assert.Empty(t, recorder.Result().Cookies(), "no new cookie when one is presented")
}
