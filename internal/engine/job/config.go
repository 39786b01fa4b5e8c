package job

import (
	"fmt"
	"time"
)

// ReminderConfig 活动提醒配置
type ReminderConfig struct {
	Enabled          bool
	Spec             string // 6 段 cron 表达式，含秒
	Timezone         string
	FixedOffsetHours int // 额外固定提醒，0 表示关闭
}

func (c *ReminderConfig) SetDefaults() {
	if c.Spec == "" {
		c.Spec = "0 * * * * *"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Moscow"
	}
	if c.FixedOffsetHours < 0 {
		c.FixedOffsetHours = 0
	}
}

func (c *ReminderConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load reminder timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
