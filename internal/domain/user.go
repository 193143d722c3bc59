package domain

type User struct {
	ID     int64
	ChatID int64
}

// UserRegistry maps Telegram chat ids to internal user ids.
// EnsureUser creates the user on first contact and is idempotent:
// repeated calls for the same chat id return the same internal id.
type UserRegistry interface {
	EnsureUser(chatID int64) (isNew bool, id int64, err error)
	ListChatIDs() ([]int64, error)
}

// Abstraction for sending messages (implemented by Telegram adapter)
type MessageSender interface {
	SendText(chatID int64, text string) error
}
