package sender

import (
	"context"
	"errors"
	"groupcast/internal/core/domain"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBot struct {
	mock.Mock
}

func (m *MockBot) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *MockBot) GetMe(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func TestTelegram_SendMessageReply(t *testing.T) {
	longText := strings.Repeat("x", TelegramMessageLimit+10)

	tests := []struct {
		name      string
		text      string
		wantCalls int
		setupMock func(mb *MockBot)
		wantErr   bool
	}{
		{
			name:      "single message",
			text:      "hello",
			wantCalls: 1,
			setupMock: func(mb *MockBot) {
				mb.On("SendMessage", mock.Anything, mock.MatchedBy(func(params *bot.SendMessageParams) bool {
					return params.Text == "hello" && params.ChatID == int64(1001) &&
						params.ReplyParameters != nil && params.ReplyParameters.MessageID == 42
				})).
					Return(&models.Message{ID: 123}, nil).
					Once()
			},
			wantErr: false,
		},
		{
			name:      "message chunked in two",
			text:      longText,
			wantCalls: 2,
			setupMock: func(mb *MockBot) {
				mb.On("SendMessage", mock.Anything, mock.MatchedBy(func(params *bot.SendMessageParams) bool {
					return len(params.Text) <= TelegramMessageLimit
				})).
					Return(&models.Message{ID: 456}, nil).
					Twice()
			},
			wantErr: false,
		},
		{
			name:      "send fails on first",
			text:      "fail",
			wantCalls: 1,
			setupMock: func(mb *MockBot) {
				mb.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("fail")).Once()
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mb := new(MockBot)
			sender := NewTelegram(mb)

			msg := &domain.Message{
				ID:     42,
				ChatID: 1001,
			}

			tc.setupMock(mb)
			err := sender.SendMessageReply(t.Context(), msg, tc.text)

			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrSendingReplyFailed)
			} else {
				require.NoError(t, err)
			}
			mb.AssertNumberOfCalls(t, "SendMessage", tc.wantCalls)
			mb.AssertExpectations(t)
		})
	}
}

func TestTelegram_Send(t *testing.T) {
	tests := []struct {
		name    string
		chat    any
		retErr  error
		wantErr bool
	}{
		{name: "chat id", chat: int64(-100123)},
		{name: "username", chat: "@news"},
		{name: "send fails", chat: "@news", retErr: errors.New("chat not found"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mb := new(MockBot)
			mb.On("SendMessage", mock.Anything, mock.MatchedBy(func(params *bot.SendMessageParams) bool {
				return params.ChatID == tc.chat && params.Text == "hi" && params.ReplyParameters == nil
			})).Return(&models.Message{}, tc.retErr).Once()

			err := NewTelegram(mb).Send(t.Context(), tc.chat, "hi")

			if tc.wantErr {
				require.EqualError(t, err, "chat not found")
			} else {
				require.NoError(t, err)
			}
			mb.AssertExpectations(t)
		})
	}
}

func TestTelegram_SendDirect(t *testing.T) {
	mb := new(MockBot)
	mb.On("SendMessage", mock.Anything, mock.MatchedBy(func(params *bot.SendMessageParams) bool {
		return params.ChatID == int64(77)
	})).Return(nil, errors.New("blocked")).Once()

	err := NewTelegram(mb).SendDirect(t.Context(), 77, "hi")

	require.ErrorIs(t, err, domain.ErrSendingReplyFailed)
	mb.AssertExpectations(t)
}

func TestTelegram_Me(t *testing.T) {
	mb := new(MockBot)
	mb.On("GetMe", mock.Anything).Return(&models.User{ID: 5, FirstName: "Caster", Username: "castbot"}, nil).Once()

	acc, err := NewTelegram(mb).Me(t.Context())

	require.NoError(t, err)
	assert.Equal(t, domain.Account{ID: 5, FirstName: "Caster", Username: "castbot"}, acc)

	mb = new(MockBot)
	mb.On("GetMe", mock.Anything).Return(nil, errors.New("unauthorized")).Once()
	_, err = NewTelegram(mb).Me(t.Context())
	require.EqualError(t, err, "unauthorized")
}

func TestTelegram_RateLimit(t *testing.T) {
	mb := new(MockBot)
	mb.On("SendMessage", mock.Anything, mock.Anything).Return(&models.Message{}, nil).Times(3)

	s := NewTelegram(mb, WithRateLimit(20))

	start := time.Now()
	for range 3 {
		require.NoError(t, s.Send(t.Context(), "@a", "x"))
	}

	// burst of one, then 50ms per message
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	mb.AssertExpectations(t)
}

func TestTelegram_RateLimitHonoursContext(t *testing.T) {
	mb := new(MockBot)
	mb.On("SendMessage", mock.Anything, mock.Anything).Return(&models.Message{}, nil).Once()

	s := NewTelegram(mb, WithRateLimit(0.001))
	require.NoError(t, s.Send(t.Context(), "@a", "x"))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	require.Error(t, s.Send(ctx, "@a", "x"))
	mb.AssertExpectations(t)
}

func Test_splitText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "fits", text: "short", limit: 10, want: []string{"short"}},
		{name: "hard cut", text: "abcdefghij", limit: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "breaks after newline", text: "ab\ncdef\ngh", limit: 6, want: []string{"ab\n", "cdef\n", "gh"}},
		{name: "counts runes", text: "ääää", limit: 2, want: []string{"ää", "ää"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, splitText(tc.text, tc.limit))
		})
	}
}
