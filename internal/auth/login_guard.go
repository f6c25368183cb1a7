package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrLocked      = errors.New("account temporarily locked")
)

// LoginGuard 实现登录限流（每 IP+用户名 每小时 N 次）与连续失败锁定。
type LoginGuard struct {
	store         Store
	ratePerHour   int
	lockThreshold int
	lockTTL       time.Duration
	now           func() time.Time
}

func NewLoginGuard(store Store, ratePerHour, lockThreshold int, lockTTL time.Duration) *LoginGuard {
	return &LoginGuard{
		store:         store,
		ratePerHour:   ratePerHour,
		lockThreshold: lockThreshold,
		lockTTL:       lockTTL,
		now:           time.Now,
	}
}

// Allow 计入一次尝试，超出限额返回 ErrRateLimited，账号锁定中返回 ErrLocked。
// 存储故障时放行，不阻断登录。
func (g *LoginGuard) Allow(ctx context.Context, ip, username string) error {
	user := strings.ToLower(username)
	rateKey := "rate:login:" + ip + ":" + user + ":" + g.now().UTC().Format("2006010215")
	count, err := g.store.Incr(ctx, rateKey, time.Hour)
	if err != nil {
		count = 0
	}
	if g.ratePerHour > 0 && count > int64(g.ratePerHour) {
		return ErrRateLimited
	}

	if locked, _ := g.store.Exists(ctx, "lock:login:"+user); locked {
		return ErrLocked
	}
	return nil
}

// RecordFailure 记录一次失败，达到阈值后锁定账号。
func (g *LoginGuard) RecordFailure(ctx context.Context, username string) error {
	user := strings.ToLower(username)
	count, err := g.store.Incr(ctx, "lock:login:fail:"+user, g.lockTTL)
	if err != nil {
		return err
	}
	if g.lockThreshold > 0 && count >= int64(g.lockThreshold) {
		return g.store.Set(ctx, "lock:login:"+user, g.lockTTL)
	}
	return nil
}

// Reset 登录成功后清理失败计数。
func (g *LoginGuard) Reset(ctx context.Context, username string) error {
	return g.store.Delete(ctx, "lock:login:fail:"+strings.ToLower(username))
}
