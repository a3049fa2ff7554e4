package dto

// Update is one inbound chat message, already reduced to what the command
// layer needs: who sent it and the raw text.
type Update struct {
	UserID    int64  `json:"user_id" validate:"required"`
	ChatID    int64  `json:"chat_id"`
	FirstName string `json:"first_name"`
	Text      string `json:"text" validate:"required"`
}
