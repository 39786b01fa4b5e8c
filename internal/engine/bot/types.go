package bot

// Update is the subset of a Bot API update the bot reacts to.
type Update struct {
	UpdateId int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	MessageId int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

type User struct {
	Id        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

type Chat struct {
	Id    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}
