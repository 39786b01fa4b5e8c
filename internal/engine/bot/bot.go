// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/internal/engine/service"
	"github.com/go-arcade/quizhub/internal/pkg/notify"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/go-arcade/quizhub/pkg/statemachine"
)

const (
	CmdStart      = "/старт"
	CmdDeleteTeam = "/удалить_команду"
	CmdGames      = "/игры"
	CmdInfo       = "/инфо"

	confirmWord   = "да"
	upcomingLimit = 10
)

const (
	msgTeamExists      = "В этом чате уже существует команда: %q."
	msgAskTeamName     = "Введите название команды, которую хотите создать:"
	msgDuplicateName   = "Команда с таким названием уже есть в этом чате!"
	msgTeamCreated     = "Команда %q успешно создана! 🎉\nКод приглашения в команду для приложения: %s"
	msgCreatorLinked   = "Вы добавлены в команду с правами модератора! 🔥"
	msgCreatorUnlinked = "Привяжите Telegram в приложении, чтобы управлять командой."
	msgCreateFailed    = "Ошибка создания команды: %v"
	msgNoTeam          = "В этом чате нет зарегистрированной команды"
	msgNotRegistered   = "Вы не зарегистрированы"
	msgOnlyModerator   = "Удалить команду может только её администратор"
	msgConfirmDelete   = "Вы действительно хотите удалить команду %q? Отправьте \"да\" для подтверждения."
	msgTeamDeleted     = "Команда успешно удалена! ❌"
	msgDeleteFailed    = "Ошибка удаления команды: %v"
	msgDeleteCancelled = "Удаление отменено."
	msgNoGames         = "На ближайшее время нет запланированных игр"
	msgGamesHeader     = "Вот список предстоящих игр вашей команды:"
	msgInfo            = "🤖 Доступные команды бота:\n\n" +
		"🔹 /старт — Создать команду.\n" +
		"🔹 /удалить_команду — Удалить команду (только модератор, требует подтверждения).\n" +
		"🔹 /игры — Посмотреть список ближайших игр.\n" +
		"🔹 /инфо — Показать этот список команд.\n\n" +
		"⚠ Примечание: Команды работают в чате вашей команды."
)

// Sender delivers bot replies.
type Sender interface {
	Send(ctx context.Context, chatId, text string) error
}

// Bot handles telegram updates for team chats.
type Bot struct {
	services *service.Services
	sessions *SessionStore
	sender   Sender
	now      func() time.Time
	loc      *time.Location
}

func NewBot(services *service.Services, sessions *SessionStore, sender Sender) *Bot {
	return &Bot{
		services: services,
		sessions: sessions,
		sender:   sender,
		now:      time.Now,
		loc:      time.UTC,
	}
}

// WithLocation sets the zone game dates are listed in.
func (b *Bot) WithLocation(loc *time.Location) *Bot {
	if loc != nil {
		b.loc = loc
	}
	return b
}

// request 单条消息的处理上下文
type request struct {
	chatId string
	userId int64
	text   string
	sess   *Session
}

// Handle processes one update. Replies are best effort; the returned
// error only reports session storage failures.
func (b *Bot) Handle(ctx context.Context, u *Update) error {
	if u == nil || u.Message == nil || u.Message.From == nil || u.Message.From.IsBot {
		return nil
	}
	text := strings.TrimSpace(u.Message.Text)
	if text == "" {
		return nil
	}

	r := &request{
		chatId: strconv.FormatInt(u.Message.Chat.Id, 10),
		userId: u.Message.From.Id,
		text:   text,
	}
	sess, err := b.sessions.Load(ctx, r.userId)
	if err != nil {
		return err
	}
	r.sess = sess

	switch command(text) {
	case CmdStart:
		return b.startCreation(ctx, r)
	case CmdDeleteTeam:
		return b.requestDelete(ctx, r)
	case CmdGames:
		b.listGames(ctx, r)
		return nil
	case CmdInfo:
		b.reply(ctx, r.chatId, msgInfo)
		return nil
	}

	// 非命令文本只在会话发起的聊天中生效
	if r.sess.ChatId != r.chatId {
		return nil
	}
	switch r.sess.State {
	case StateAwaitingTeamName:
		return b.createTeam(ctx, r)
	case StateAwaitingDeleteConfirmation:
		return b.confirmDelete(ctx, r)
	}
	return nil
}

// command normalizes "/Игры@QuizBot" to "/игры".
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd)
}

func (b *Bot) transition(ctx context.Context, r *request, event statemachine.Event) error {
	next, err := machineFor(r.sess.State).Fire(event)
	if err != nil {
		return err
	}
	r.sess.State = next
	if next == StateIdle {
		r.sess.ChatId, r.sess.TeamId = "", 0
	}
	return b.sessions.Save(ctx, r.userId, r.sess)
}

func (b *Bot) startCreation(ctx context.Context, r *request) error {
	team, err := b.teamOfChat(ctx, r.chatId)
	if err != nil {
		b.reply(ctx, r.chatId, fmt.Sprintf(msgCreateFailed, err))
		return nil
	}
	if team != nil {
		b.reply(ctx, r.chatId, fmt.Sprintf(msgTeamExists, team.Name))
		return nil
	}

	r.sess.ChatId, r.sess.TeamId = r.chatId, 0
	if err := b.transition(ctx, r, EventStartCreation); err != nil {
		return err
	}
	b.reply(ctx, r.chatId, msgAskTeamName)
	return nil
}

func (b *Bot) createTeam(ctx context.Context, r *request) error {
	if err := b.transition(ctx, r, EventReply); err != nil {
		return err
	}

	var creatorId *uint64
	user, err := b.linkedUser(ctx, r.userId)
	if err != nil {
		log.Warnw("resolve telegram user failed", "telegramId", r.userId, "error", err)
	}
	if user != nil {
		creatorId = &user.ID
	}

	chatId := r.chatId
	team, err := b.services.Team.CreateTeam(ctx, &model.CreateTeamReq{Name: r.text, ChatId: &chatId}, creatorId)
	switch {
	case errors.Is(err, service.ErrConflict):
		b.reply(ctx, r.chatId, msgDuplicateName)
		return nil
	case err != nil:
		b.reply(ctx, r.chatId, fmt.Sprintf(msgCreateFailed, err))
		return nil
	}

	msg := fmt.Sprintf(msgTeamCreated, team.Name, team.InviteCode)
	if creatorId != nil {
		msg += "\n" + msgCreatorLinked
	} else {
		msg += "\n" + msgCreatorUnlinked
	}
	b.reply(ctx, r.chatId, msg)
	return nil
}

func (b *Bot) requestDelete(ctx context.Context, r *request) error {
	team, err := b.teamOfChat(ctx, r.chatId)
	if err != nil || team == nil {
		b.reply(ctx, r.chatId, msgNoTeam)
		return nil
	}
	user, err := b.linkedUser(ctx, r.userId)
	if err != nil || user == nil {
		b.reply(ctx, r.chatId, msgNotRegistered)
		return nil
	}
	ok, err := b.services.Policy.IsModerator(ctx, user.ID, team.ID)
	if err != nil || !ok {
		b.reply(ctx, r.chatId, msgOnlyModerator)
		return nil
	}

	r.sess.ChatId, r.sess.TeamId = r.chatId, team.ID
	if err := b.transition(ctx, r, EventRequestDelete); err != nil {
		return err
	}
	b.reply(ctx, r.chatId, fmt.Sprintf(msgConfirmDelete, team.Name))
	return nil
}

func (b *Bot) confirmDelete(ctx context.Context, r *request) error {
	teamId := r.sess.TeamId
	if err := b.transition(ctx, r, EventReply); err != nil {
		return err
	}
	if strings.ToLower(r.text) != confirmWord {
		b.reply(ctx, r.chatId, msgDeleteCancelled)
		return nil
	}

	user, err := b.linkedUser(ctx, r.userId)
	if err != nil || user == nil {
		b.reply(ctx, r.chatId, msgNotRegistered)
		return nil
	}
	// 删除时再次校验权限
	if err := b.services.Team.DeleteTeam(ctx, user.ID, teamId); err != nil {
		b.reply(ctx, r.chatId, fmt.Sprintf(msgDeleteFailed, err))
		return nil
	}
	b.reply(ctx, r.chatId, msgTeamDeleted)
	return nil
}

func (b *Bot) listGames(ctx context.Context, r *request) {
	user, err := b.linkedUser(ctx, r.userId)
	if err != nil || user == nil {
		b.reply(ctx, r.chatId, msgNotRegistered)
		return
	}
	team, err := b.teamOfChat(ctx, r.chatId)
	if err != nil || team == nil {
		b.reply(ctx, r.chatId, msgNoTeam)
		return
	}

	events, err := b.services.Event.ListUpcoming(ctx, team.ID, b.now(), upcomingLimit)
	if err != nil {
		log.Errorw("list upcoming events failed", "teamId", team.ID, "error", err)
		return
	}
	b.reply(ctx, r.chatId, FormatGames(events, b.loc))
}

// FormatGames renders the upcoming events list.
func FormatGames(events []*model.Event, loc *time.Location) string {
	if len(events) == 0 {
		return msgNoGames
	}
	var sb strings.Builder
	sb.WriteString(msgGamesHeader)
	for _, e := range events {
		fmt.Fprintf(&sb, "\n%s: %s", notify.FormatDate(e.DateTime, loc), e.Name)
	}
	return sb.String()
}

// teamOfChat returns nil without error when the chat has no team.
func (b *Bot) teamOfChat(ctx context.Context, chatId string) (*model.Team, error) {
	team, err := b.services.Team.GetTeamByChatId(ctx, chatId)
	if errors.Is(err, service.ErrNotFound) {
		return nil, nil
	}
	return team, err
}

// linkedUser returns nil without error when the telegram account is not linked.
func (b *Bot) linkedUser(ctx context.Context, telegramId int64) (*model.User, error) {
	user, err := b.services.User.GetUserByTelegramId(ctx, telegramId)
	if errors.Is(err, service.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

func (b *Bot) reply(ctx context.Context, chatId, text string) {
	if err := b.sender.Send(ctx, chatId, text); err != nil {
		log.Errorw("bot reply failed", "chatId", chatId, "error", err)
	}
}
