package api

import (
	"fmt"
	"math/rand/v2"

	"chatworkbot/internal/domain"
)

const omikujiCommand = "おみくじ"

var fortunes = []string{"大吉", "中吉", "吉", "小吉", "凶", "★大凶★"}

const specialFortune = "　ゆ　ゆ　ゆ　ス　ペ　シ　ャ　ル　大　吉　"

// Chance of the special fortune per draw.
const (
	specialChance      = 0.002
	specialChanceAdmin = 0.25
)

// drawFortune picks a fortune from roll in [0,1) and pick, an index into
// fortunes.
func drawFortune(roll float64, pick int, admin bool) string {
	chance := specialChance
	if admin {
		chance = specialChanceAdmin
	}
	if roll < chance {
		return specialFortune
	}
	return fortunes[pick%len(fortunes)]
}

func randomFortune(admin bool) string {
	return drawFortune(rand.Float64(), rand.IntN(len(fortunes)), admin)
}

// OmikujiReply quotes the command message when its id is known and mentions
// the sender otherwise.
func OmikujiReply(from domain.Account, roomID string, messageID domain.ID, fortune string) string {
	head := fmt.Sprintf("[To:%s]", from.AccountID)
	if messageID != "" {
		head = fmt.Sprintf("[rp aid=%s to=%s-%s]", from.AccountID, roomID, messageID)
	}

	name := from.Name
	if name == "" {
		name = fmt.Sprintf("[pname:%s]", from.AccountID)
	}

	return fmt.Sprintf("%s%sさん、[info][title]おみくじ[/title]おみくじの結果は…\n\n%s\n\nでした！[/info]", head, name, fortune)
}
