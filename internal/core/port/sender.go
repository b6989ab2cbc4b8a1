package port

import (
	"context"
	"groupcast/internal/core/domain"
)

type MessageSender interface {
	// Send delivers text to a resolved chat. The chat is an int64 id or an "@username" string.
	Send(ctx context.Context, chat any, text string) error
}

type Replier interface {
	// SendMessageReply answers the given message in its own chat.
	SendMessageReply(ctx context.Context, message *domain.Message, text string) error
	// SendDirect messages the caller privately. It is the fallback when a reply is rejected.
	SendDirect(ctx context.Context, caller domain.Caller, text string) error
}

type AccountInfo interface {
	// Me returns the identity of the logged in account.
	Me(ctx context.Context) (domain.Account, error)
}
