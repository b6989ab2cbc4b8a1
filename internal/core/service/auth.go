package service

import (
	"errors"
	"groupcast/internal/core/domain"
	"sync"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

type Decision int

const (
	Allowed Decision = iota
	// Denied callers get the redirect response.
	Denied
	// Muted callers are denied and replied to recently, so no response is sent.
	Muted
)

type Authorizer interface {
	Check(caller domain.Caller) Decision
}

type CallerAuthorizer struct {
	allowlist []int64
	cooldown  time.Duration

	mu       sync.Mutex
	limiters map[domain.Caller]*rate.Limiter
}

func NewAuthorizer() (*CallerAuthorizer, error) {
	var list []int64

	err := viper.UnmarshalKey("telegram.allowed_user_ids", &list)
	if err != nil {
		return nil, errors.New("failed to load allowed user IDs")
	}

	return &CallerAuthorizer{
		allowlist: list,
		cooldown:  viper.GetDuration("dispatch.denied_cooldown"),
		limiters:  make(map[domain.Caller]*rate.Limiter),
	}, nil
}

func (a *CallerAuthorizer) Check(caller domain.Caller) Decision {
	for _, id := range a.allowlist {
		if domain.Caller(id) == caller {
			return Allowed
		}
	}

	if a.cooldown <= 0 {
		return Denied
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.limiters == nil {
		a.limiters = make(map[domain.Caller]*rate.Limiter)
	}

	l, ok := a.limiters[caller]
	if !ok {
		l = rate.NewLimiter(rate.Every(a.cooldown), 1)
		a.limiters[caller] = l
	}
	if !l.Allow() {
		return Muted
	}

	return Denied
}
