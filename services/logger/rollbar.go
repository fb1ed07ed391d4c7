package logsvc

import (
	"fmt"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"

	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/identity"
)

// RollbarLogger reports to rollbar and mirrors every entry to a zap logger.
type RollbarLogger struct {
	std *zap.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *zap.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "")
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Close flushes both sinks.
func (l RollbarLogger) Close() {
	rollbar.Wait()
	_ = l.std.Sync()
}

// scrub drops credentials from args. A Session is reduced to its Identity.
func scrub(args []interface{}) []interface{} {
	clean := make([]interface{}, 0, len(args))
	for _, arg := range args {
		switch a := arg.(type) {
		case identity.AccessToken, identity.Grant:
			continue
		case identity.Session:
			clean = append(clean, a.Identity)
		case *identity.Session:
			if a != nil {
				clean = append(clean, a.Identity)
			}
		default:
			clean = append(clean, arg)
		}
	}
	return clean
}

// expected fmt: msg | error, map[string]interface{}, identity.Identity
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var idSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		// set the acting identity
		if id, ok := arg.(identity.Identity); ok {
			if !idSet { // only set one Identity
				rollbar.SetPerson(id.UserID, id.DisplayName, id.Email)
				idSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	if !idSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

func fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args))
	for i, arg := range args {
		switch a := arg.(type) {
		case error:
			flds = append(flds, zap.Error(a))
		case identity.Identity:
			flds = append(flds, zap.String("user_id", a.UserID), zap.String("role", string(a.Role)))
		case map[string]interface{}:
			flds = append(flds, zap.Any("extra", a))
		default:
			flds = append(flds, zap.Any(fmt.Sprintf("arg%d", i), a))
		}
	}
	return flds
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	args = scrub(args)
	rollbar.Debug(l.prepare(msg, args)...)
	l.std.Debug(msg, fields(args)...)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	args = scrub(args)
	rollbar.Info(l.prepare(msg, args)...)
	l.std.Info(msg, fields(args)...)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	args = scrub(args)
	rollbar.Warning(l.prepare(msg, args)...)
	l.std.Warn(msg, fields(args)...)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	args = scrub(args)
	rollbar.Error(l.prepare(msg, args)...)
	l.std.Error(msg, fields(args)...)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	args = scrub(args)
	rollbar.Critical(l.prepare(msg, args)...)
	rollbar.Wait()
	l.std.Fatal(msg, fields(args)...)
}
