package notify

import (
	"context"
	"fmt"
	"strings"
)

// Router picks a channel by the shape of the chat id. WhatsApp ids end
// with @g.us / @c.us or carry the "wa:" prefix; everything else goes to
// the default channel.
type Router struct {
	channels map[ChannelType]Gateway
	def      ChannelType
}

func NewRouter(def ChannelType) *Router {
	return &Router{
		channels: make(map[ChannelType]Gateway),
		def:      def,
	}
}

// Register adds or replaces the gateway for a channel type.
func (r *Router) Register(t ChannelType, g Gateway) {
	r.channels[t] = g
}

// ChannelFor reports which channel a chat id is routed to.
func (r *Router) ChannelFor(chatId string) ChannelType {
	if strings.HasPrefix(chatId, "wa:") ||
		strings.HasSuffix(chatId, "@g.us") ||
		strings.HasSuffix(chatId, "@c.us") {
		return ChannelTypeWhatsApp
	}
	return r.def
}

func (r *Router) Send(ctx context.Context, chatId, text string) error {
	t := r.ChannelFor(chatId)
	g, ok := r.channels[t]
	if !ok {
		return fmt.Errorf("channel %s is not registered", t)
	}
	return g.Send(ctx, chatId, text)
}
