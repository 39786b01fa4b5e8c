package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-arcade/quizhub/internal/engine/model"
)

// DateLayout is dd.MM.yyyy HH:mm.
const DateLayout = "02.01.2006 15:04"

// FormatDate renders t in loc. A nil loc keeps t's own zone.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateLayout)
}

const PingText = "🔍 Проверка подключения к чату команды"

// BuildActionMessage formats a registration or unregistration notice.
func BuildActionMessage(event *model.Event, participant string, kind Kind, loc *time.Location) string {
	var b strings.Builder
	switch kind {
	case KindRegistration:
		b.WriteString("✅ Регистрация на мероприятие!\n\n")
	case KindUnregistration:
		b.WriteString("❌ Отмена регистрации!\n\n")
	}
	fmt.Fprintf(&b, "📌 Мероприятие: %s\n", event.Name)
	fmt.Fprintf(&b, "👤 Участник: %s\n\n", participant)
	fmt.Fprintf(&b, "📅 Дата: %s\n", FormatDate(event.DateTime, loc))
	fmt.Fprintf(&b, "📍 Место: %s", event.Location)
	if event.AlbumLink != nil && *event.AlbumLink != "" {
		fmt.Fprintf(&b, "\n📸 Альбом: %s", *event.AlbumLink)
	}
	return b.String()
}

// BuildEventSummary renders the event and its roster. With a limit the
// roster is split into the main squad and the reserve, numbered
// continuously.
func BuildEventSummary(event *model.Event, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📌 %s\n", event.Name)
	fmt.Fprintf(&b, "📍 Место: %s\n", event.Location)
	fmt.Fprintf(&b, "📅 Дата: %s\n", FormatDate(event.DateTime, loc))
	if event.Price != nil && *event.Price != "" {
		fmt.Fprintf(&b, "💰 Цена: %s\n", *event.Price)
	}
	b.WriteString("\n")

	regs := event.Registrations
	if len(regs) == 0 {
		b.WriteString("Пока никто не зарегистрировался")
		return b.String()
	}

	limit := 0
	if event.RegistrationLimit != nil {
		limit = *event.RegistrationLimit
	}
	if limit <= 0 {
		b.WriteString("👥 Участники:\n")
		writeRoster(&b, regs, 1)
		return strings.TrimRight(b.String(), "\n")
	}

	squad := regs
	if len(regs) > limit {
		squad = regs[:limit]
	}
	b.WriteString("👥 Основной состав:\n")
	writeRoster(&b, squad, 1)
	if len(regs) > limit {
		b.WriteString("\n🕐 Резерв:\n")
		writeRoster(&b, regs[limit:], limit+1)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeRoster(b *strings.Builder, regs []model.Registration, start int) {
	for i, r := range regs {
		fmt.Fprintf(b, "%d. %s\n", start+i, r.FullName)
	}
}
