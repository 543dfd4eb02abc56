// Package chat answers free-text operator questions from a fixed keyword
// table.
package chat

import (
	"math/rand/v2"
	"strings"
)

// rule maps a keyword to its canned reply. Rules are tried in order and the
// first keyword found in the question wins.
type rule struct {
	keyword string
	topic   string
	reply   string
}

var rules = []rule{
	{
		keyword: "sales",
		topic:   "sales",
		reply: "Sales are tracked per day from completed orders. Check the revenue trend " +
			"insight for how the last three days compare with the days before, and the " +
			"stats summary for total revenue and average order value this week.",
	},
	{
		keyword: "inventory",
		topic:   "inventory",
		reply: "Inventory predictions estimate days until stock-out from this month's usage. " +
			"Items with three days or less are critical; reorder them first using the " +
			"recommended quantities.",
	},
	{
		keyword: "menu",
		topic:   "menu",
		reply: "Menu recommendations look at items ordered together, time-of-day demand and " +
			"growing categories. Consider bundling frequent pairs as a combo and featuring " +
			"your best seller.",
	},
	{
		keyword: "customer",
		topic:   "customer",
		reply: "Customer satisfaction comes from order ratings. Watch for an average below 4.0 " +
			"or a recent drop, and reward your top-spending guests with something from the " +
			"category they order most.",
	},
	{
		keyword: "staff",
		topic:   "staff",
		reply: "Schedule extra staff around your peak hours. The peak-hour insight lists the two " +
			"busiest hours of the selected period.",
	},
	{
		keyword: "price",
		topic:   "price",
		reply: "Before changing prices, compare each item's sales volume and revenue. Popular " +
			"items with growing demand can usually absorb a small increase; slow movers are " +
			"better candidates for combos.",
	},
}

var fallbacks = []string{
	"I can help with sales, inventory, menu, customers, staff and pricing. What would you like to know?",
	"Try asking about this week's sales, low-stock items or menu ideas.",
	"I did not catch a topic there. Ask me about sales, inventory, the menu, customers, staff or prices.",
}

// Reply is an answer to one question.
type Reply struct {
	Text  string `json:"reply"`
	Topic string `json:"topic,omitempty"` // empty for generic replies
}

// Responder answers questions. The zero value is not usable; use
// NewResponder.
type Responder struct {
	intN func(n int) int
}

// NewResponder returns a responder that picks generic replies at random.
func NewResponder() *Responder {
	return &Responder{intN: rand.IntN}
}

// NewResponderWithPicker returns a responder whose generic reply is chosen by
// pick, which must return a value in [0, n).
func NewResponderWithPicker(pick func(n int) int) *Responder {
	return &Responder{intN: pick}
}

// Respond matches the lower-cased question against the keyword table.
func (r *Responder) Respond(question string) Reply {
	q := strings.ToLower(question)
	for _, rl := range rules {
		if strings.Contains(q, rl.keyword) {
			return Reply{Text: rl.reply, Topic: rl.topic}
		}
	}
	i := r.intN(len(fallbacks))
	if i < 0 || i >= len(fallbacks) {
		i = 0
	}
	return Reply{Text: fallbacks[i]}
}

// Topics lists the keywords the responder recognises, in match order.
func Topics() []string {
	topics := make([]string, len(rules))
	for i, rl := range rules {
		topics[i] = rl.keyword
	}
	return topics
}
