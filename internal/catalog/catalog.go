// Package catalog is the client for the remote commerce API: products,
// categories, promotional slides and the general store configuration.
package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("catalog unavailable")
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"nome"`
	Description string          `json:"descricao,omitempty"`
	Price       decimal.Decimal `json:"preco"`
	ImageURL    string          `json:"imagem_produto,omitempty"`
	CategoryID  int64           `json:"categoria,omitempty"`
	Featured    bool            `json:"destaque"`
	Stock       int             `json:"estoque"`
	Sizes       []string        `json:"tamanhos,omitempty"`
	Brand       string          `json:"marca,omitempty"`
}

type ProductPage struct {
	Products   []Product `json:"data"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
	Total      int       `json:"total"`
}

type ListParams struct {
	Page     int
	Limit    int
	Search   string
	Featured bool
}

type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"nome"`
	ImageURL string `json:"imagem,omitempty"`
}

type Slide struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"imagem"`
	Title    string `json:"titulo,omitempty"`
	Link     string `json:"link,omitempty"`
}

// StoreConfig carries the store's contact details and weekly opening
// hours, one entry per day ("08:00 às 18:00" or "Fechado").
type StoreConfig struct {
	StoreName      string `json:"nome_loja,omitempty"`
	ContactPhone   string `json:"telefone_contato"`
	ContactEmail   string `json:"email_contato,omitempty"`
	Address        string `json:"endereco,omitempty"`
	HoursSunday    string `json:"horario_domingo"`
	HoursMonday    string `json:"horario_segunda"`
	HoursTuesday   string `json:"horario_terca"`
	HoursWednesday string `json:"horario_quarta"`
	HoursThursday  string `json:"horario_quinta"`
	HoursFriday    string `json:"horario_sexta"`
	HoursSaturday  string `json:"horario_sabado"`
}

// HoursFor returns the configured hours string for a weekday.
func (c StoreConfig) HoursFor(day time.Weekday) string {
	switch day {
	case time.Sunday:
		return c.HoursSunday
	case time.Monday:
		return c.HoursMonday
	case time.Tuesday:
		return c.HoursTuesday
	case time.Wednesday:
		return c.HoursWednesday
	case time.Thursday:
		return c.HoursThursday
	case time.Friday:
		return c.HoursFriday
	default:
		return c.HoursSaturday
	}
}

// OpenAt reports whether the store is open at t per the weekly schedule.
func (c StoreConfig) OpenAt(t time.Time) bool {
	return openAt(c.HoursFor(t.Weekday()), t)
}
