package logsvc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/identity"
)

func newObservedLogger() (*RollbarLogger, *observer.ObservedLogs) {
	zcore, logs := observer.New(zap.DebugLevel)
	l := NewRollbarLogger(zap.New(zcore), &core.Config{Env: "TEST"})
	l.Enable(false)
	return l, logs
}

func TestRollbarLogger_neverLogsAccessToken(t *testing.T) {
	l, logs := newObservedLogger()

	id := identity.Identity{UserID: "u1", Email: "a@b.cd", Role: identity.RoleTeacher, DisplayName: "Prof"}
	sess := identity.Session{ID: "s1", Identity: id, AccessToken: "secret-token"}
	l.Info("session opened", sess, identity.AccessToken("secret-token"), identity.Grant{AccessToken: "secret-token", UserID: "u1"})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "u1", ctx["user_id"])
		assert.Equal(t, "teacher", ctx["role"])
		for _, v := range ctx {
			assert.NotContains(t, fmt.Sprint(v), "secret-token")
		}
	}
}

func TestRollbarLogger_fields(t *testing.T) {
	l, logs := newObservedLogger()

	l.Error("query failed", errors.New("boom"), map[string]interface{}{"path": "/api/dashboard"})
	l.Warn("no profile row")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "boom", ctx["error"])
		assert.Contains(t, ctx, "extra")
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
	}
}
