package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	u, err := s.auth.Register(ctx, "awdeorio", "Andrew DeOrio", "awdeorio@example.com", "avatar.jpg", "chickens")
	require.NoError(t, err)
	assert.Equal(t, "awdeorio", u.Username)

	got, err := s.auth.Authenticate(ctx, "awdeorio", "chickens")
	require.NoError(t, err)
	assert.Equal(t, "Andrew DeOrio", got.Fullname)

	_, err = s.auth.Authenticate(ctx, "awdeorio", "notchickens")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.auth.Register(ctx, "awdeorio", "Andrew DeOrio", "a@example.com", "a.jpg", "chickens")
	require.NoError(t, err)
	_, err = s.auth.Register(ctx, "awdeorio", "Someone Else", "b@example.com", "b.jpg", "other")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestAuthenticateUnknownUserSameOutcome(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.auth.Register(ctx, "awdeorio", "Andrew DeOrio", "a@example.com", "a.jpg", "chickens")
	require.NoError(t, err)

	// 用户不存在和密码错误必须是同一个错误
	_, errUnknown := s.auth.Authenticate(ctx, "nosuchuser", "chickens")
	_, errWrongPw := s.auth.Authenticate(ctx, "awdeorio", "wrong")
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
}

func TestAuthenticateSQLInjection(t *testing.T) {
	s := newServices(t)
	seedFixture(t, s.db)
	ctx := context.Background()

	// 带引号和恒真子句的用户名：不命中任何行，也不产生存储层错误
	for _, name := range []string{
		"' OR 1=1;--",
		"awdeorio' --",
		"'; DROP TABLE users;--",
	} {
		_, err := s.auth.Authenticate(ctx, name, "chickens")
		assert.ErrorIs(t, err, ErrInvalidCredentials, "username %q", name)
	}

	// 表没被破坏
	got, err := s.auth.Authenticate(ctx, "awdeorio", "chickens")
	require.NoError(t, err)
	assert.Equal(t, "awdeorio", got.Username)
}

func TestPasswordRecordFormat(t *testing.T) {
	rec1 := HashPassword("chickens")
	rec2 := HashPassword("chickens")

	parts1 := strings.SplitN(rec1, "$", 3)
	require.Len(t, parts1, 3)
	assert.Equal(t, "pbkdf2", parts1[0])
	assert.NotEmpty(t, parts1[1])
	assert.NotEmpty(t, parts1[2])

	// 盐每条记录唯一，同一密码两次注册得到不同记录
	parts2 := strings.SplitN(rec2, "$", 3)
	assert.NotEqual(t, parts1[1], parts2[1])
	assert.NotEqual(t, parts1[2], parts2[2])
}

func TestVerifyLegacySHA512Record(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	u, err := s.auth.Register(ctx, "legacy", "Legacy User", "legacy@example.com", "l.jpg", "placeholder")
	require.NoError(t, err)

	// 旧格式记录仍可登录
	salt := "34e94a05cdf247db92a84bc590950336"
	record := "sha512$" + salt + "$" + deriveHex("sha512", salt, "chickens")
	require.NoError(t, s.db.Model(u).Update("password", record).Error)

	got, err := s.auth.Authenticate(ctx, "legacy", "chickens")
	require.NoError(t, err)
	assert.Equal(t, "legacy", got.Username)

	_, err = s.auth.Authenticate(ctx, "legacy", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMalformedStoredRecord(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	u, err := s.auth.Register(ctx, "broken", "Broken Record", "broken@example.com", "b.jpg", "placeholder")
	require.NoError(t, err)
	require.NoError(t, s.db.Model(u).Update("password", "not-a-valid-record").Error)

	_, err = s.auth.Authenticate(ctx, "broken", "placeholder")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.auth.Register(ctx, "awdeorio", "Andrew DeOrio", "a@example.com", "a.jpg", "chickens")
	require.NoError(t, err)

	assert.ErrorIs(t, s.auth.ChangePassword(ctx, "awdeorio", "wrong", "newpw"), ErrInvalidCredentials)
	require.NoError(t, s.auth.ChangePassword(ctx, "awdeorio", "chickens", "newpw"))

	_, err = s.auth.Authenticate(ctx, "awdeorio", "chickens")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.auth.Authenticate(ctx, "awdeorio", "newpw")
	assert.NoError(t, err)
}
