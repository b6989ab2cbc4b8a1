package port

import (
	"context"
	"groupcast/internal/core/domain"
)

type Directory interface {
	// Resolve maps a target to something MessageSender.Send accepts.
	Resolve(ctx context.Context, target domain.Target) (any, error)
}

type ChatLister interface {
	// ListChats returns the groups and channels the account is a member of.
	ListChats(ctx context.Context) ([]domain.Chat, error)
}

type ChatStore interface {
	UpsertChat(ctx context.Context, chat domain.Chat) error
	RemoveChat(ctx context.Context, id int64) error
	ListChats(ctx context.Context) ([]domain.Chat, error)
	FindByUsername(ctx context.Context, username string) (domain.Chat, bool, error)
}
