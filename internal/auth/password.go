package auth

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// 管理员密码长度范围；bcrypt 只使用前 72 字节，超出部分会被静默截断。
const (
	MinPasswordLength = 12
	maxPasswordBytes  = 72
)

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// HashPassword 校验长度后使用 bcrypt 生成密码哈希。
func HashPassword(password string) (string, error) {
	switch {
	case len(password) < MinPasswordLength:
		return "", ErrPasswordTooShort
	case len(password) > maxPasswordBytes:
		return "", ErrPasswordTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash 校验密码是否匹配哈希。
// hash 为空（用户不存在）时仍与一个固定哈希比较后返回 false，使两种失败耗时一致。
func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(placeholderHash(), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func placeholderHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("portfolio-placeholder-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}
