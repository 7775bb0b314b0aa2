// Package whatsapp builds the deep link that hands a confirmed order off
// to the seller's WhatsApp chat.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

type Notifier struct {
	sellerPhone   string // international format, digits only
	publicBaseURL string // storefront origin for receipt links
}

func NewNotifier(sellerPhone, publicBaseURL string) *Notifier {
	return &Notifier{
		sellerPhone:   onlyDigits(sellerPhone),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// OrderLink returns the api.whatsapp.com link pre-filled with the order
// confirmation message for the given order.
func (n *Notifier) OrderLink(orderID int64, customerName string) string {
	receiptURL := fmt.Sprintf("%s/pedido/%d", n.publicBaseURL, orderID)

	message := fmt.Sprintf(
		"Olá %s, recebemos o seu pedido com sucesso!\n\n"+
			"Pedido: #%d\n\n"+
			"Acesse o link a seguir para visualizar seu pedido:\n%s\n\n"+
			"Por favor, envie esta mensagem para o vendedor para darmos continuidade às próximas etapas.",
		customerName, orderID, receiptURL)

	query := url.Values{}
	query.Set("phone", n.sellerPhone)
	query.Set("text", message)

	return "https://api.whatsapp.com/send?" + query.Encode()
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
