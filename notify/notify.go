// Package notify sends swap outcome notifications over Telegram. It is
// optional: a nil Notifier drops everything.
package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/youke3399/youke-uniswap/swap"
)

type Notifier struct {
	botAPI *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Notifier, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &Notifier{botAPI: botAPI, chatID: chatID}, nil
}

// SwapSettled announces a confirmed swap.
func (n *Notifier) SwapSettled(s swap.Settlement) {
	if n == nil {
		return
	}
	text := fmt.Sprintf("*Swap Confirmed*\n%s %s → %s %s on chain %d\nTx: `%s`",
		s.FromAmount, s.FromSymbol, s.ToAmount, s.ToSymbol, s.ChainID, s.TxHash.Hex())
	n.send(text)
}

// SwapFailed announces a failed swap submission.
func (n *Notifier) SwapFailed(err error) {
	if n == nil {
		return
	}
	n.send(fmt.Sprintf("*Swap Failed*\n%v", err))
}

func (n *Notifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = "Markdown"
	msg.DisableWebPagePreview = true
	if _, err := n.botAPI.Send(msg); err != nil {
		log.Printf("notify: error sending to chat %d: %v", n.chatID, err)
	}
}
