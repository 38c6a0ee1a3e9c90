package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/example/fornetto/internal/models"
	"github.com/example/fornetto/internal/orders"
)

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// FormatBRL formats a money amount the Brazilian way: R$ 1.234,56.
func FormatBRL(amount float64) string {
	cents := int64(amount*100 + 0.5)
	if amount < 0 {
		cents = int64(amount*100 - 0.5)
	}

	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	intPart := cents / 100
	digits := fmt.Sprintf("%d", intPart)

	var grouped strings.Builder
	length := len(digits)
	for i, digit := range digits {
		if i > 0 && (length-i)%3 == 0 {
			grouped.WriteString(".")
		}
		grouped.WriteRune(digit)
	}

	return fmt.Sprintf("R$ %s%s,%02d", sign, grouped.String(), cents%100)
}

var paymentLabels = map[string]string{
	models.PaymentMoney:    "Dinheiro",
	models.PaymentPix:      "Pix",
	models.PaymentCredit:   "Crédito",
	models.PaymentDebit:    "Débito",
	models.PaymentIfood:    "iFood",
	models.PaymentToDefine: "A definir",
}

var typeLabels = map[string]string{
	models.OrderTypeDelivery: "Entrega",
	models.OrderTypePickup:   "Retirada",
	models.OrderTypeCounter:  "Balcão",
}

// NotifyNewOrder sends a new-order alert to the admin chat.
func (s *TelegramService) NotifyNewOrder(order models.Order) error {
	if s.adminChatID == "" {
		return nil
	}

	var itemsList strings.Builder
	for i, item := range order.Items {
		itemsList.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %gx %s = %s\n",
			i+1,
			item.Name,
			item.Quantity,
			FormatBRL(item.UnitPrice),
			FormatBRL(item.LineTotal),
		))
	}

	paymentLabel := paymentLabels[order.Payment.Data().Method]
	if paymentLabel == "" {
		paymentLabel = order.Payment.Data().Method
	}
	typeLabel := typeLabels[order.Type]
	if typeLabel == "" {
		typeLabel = order.Type
	}

	snapshot := order.CustomerSnapshot.Data()

	message := fmt.Sprintf(`<b>🍕 NOVO PEDIDO!</b>
<b>📋 Pedido:</b> %s
<b>👤 Cliente:</b> %s
<b>📞 Telefone:</b> %s
<b>🛵 Tipo:</b> %s
<b>📦 Itens:</b>
%s
<b>💰 Total:</b> %s
<b>💳 Pagamento:</b> %s
━━━━━━━━━━━━━━━━━━`,
		order.ShortID,
		snapshot.Name,
		snapshot.Phone,
		typeLabel,
		itemsList.String(),
		FormatBRL(orders.OrderTotal(order)),
		paymentLabel,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}

// NotifyLateOrders warns the admin chat about orders past their expected
// delivery window.
func (s *TelegramService) NotifyLateOrders(late []models.Order) error {
	if s.adminChatID == "" || len(late) == 0 {
		return nil
	}

	var list strings.Builder
	for _, order := range late {
		list.WriteString(fmt.Sprintf("• %s — %s (%s)\n",
			order.ShortID,
			order.CustomerSnapshot.Data().Name,
			orders.NormalizeStatus(order.Status),
		))
	}

	message := fmt.Sprintf(`<b>⏰ PEDIDOS ATRASADOS</b>
%s`, list.String())

	return s.SendToAdmin(strings.TrimSpace(message))
}
