package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

type Interval struct {
	value time.Duration
}

var (
	Second = Interval{value: time.Second}
	Minute = Interval{value: time.Minute}
	Hour   = Interval{value: time.Hour}
)

func (i Interval) Duration() time.Duration {
	return i.value
}

// Window returns the index of the interval window t falls into.
func (i Interval) Window(t time.Time) int64 {
	return t.UnixNano() / int64(i.value)
}

func (i Interval) String() string {
	switch i {
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	}
	return i.value.String()
}

type Limit struct {
	Value    uint16
	Interval Interval
}

func (l Limit) String() string {
	return fmt.Sprintf("%d per %s", l.Value, l.Interval)
}

type Result struct {
	IsAllowed bool
}

func Allowed() Result {
	return Result{IsAllowed: true}
}

func NotAllowed() Result {
	return Result{IsAllowed: false}
}

type RateLimiter interface {
	CheckLimit(ctx context.Context, key string, limit Limit) Result
}
