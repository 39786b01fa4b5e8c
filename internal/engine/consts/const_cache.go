package consts

import "time"

const (
	// BotSessionKey telegram 会话状态，后缀为 telegram 用户 id
	BotSessionKey = "quizhub:bot:session:"
	BotSessionTTL = 10 * time.Minute

	// ReminderJobName 同时作为分布式锁名
	ReminderJobName = "event-reminder"
)
