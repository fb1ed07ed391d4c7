package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/personal/core/identity"
	"github.com/trezcool/personal/storage/database/inmem"
	"github.com/trezcool/personal/tests"
)

var profRepo identity.ProfileRepository

func setup(t *testing.T) (*commandLine, *testutil.FakeProvider, *bytes.Buffer) {
	profRepo = inmemdb.NewProfileRepository(inmemdb.Open())
	validate, _ := testutil.NewValidator()
	provider := testutil.NewFakeProvider()
	out := new(bytes.Buffer)

	return &commandLine{
		profileSvc:  identity.NewProfileService(profRepo, validate),
		identitySvc: identity.NewService(provider, identity.NewSessionStore(), validate, testutil.NewLogger()),
		out:         out,
	}, provider, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func checkErr(t *testing.T, tt cliTest, err error) {
	switch {
	case tt.wantErr != nil:
		if errors.Cause(err) != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err == nil || err.Error() != tt.wantErrStr {
			t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
		}
	case err != nil:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}
}

func Test_commandLine_setProfile(t *testing.T) {
	cli, _, out := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"setprofile"}, wantErr: errHelp},
		{name: "no name", args: []string{"setprofile", "-user-id", "s-1"}, wantErr: errHelp},
		{name: "invalid role", args: []string{"setprofile", "-user-id", "s-1", "-name", "Ana", "-role", "admin"}, extra: "invalid"},
		{name: "student (default role)", args: []string{"setprofile", "-user-id", "s-1", "-name", "Ana"}},
		{name: "promote to teacher", args: []string{"setprofile", "-user-id", "s-1", "-name", "Ana", "-role", "teacher"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.extra == "invalid" {
				var vErrs validator.ValidationErrors
				assert.True(t, errors.As(err, &vErrs), "err = %v", err)
				return
			}
			checkErr(t, tt, err)
		})
	}

	prof, err := profRepo.GetProfile(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, identity.Profile{UserID: "s-1", Role: identity.RoleTeacher, Name: "Ana"}, prof)
	assert.Contains(t, out.String(), "profile saved: s-1 (teacher) Ana")
}

func Test_commandLine_whoami(t *testing.T) {
	cli, provider, out := setup(t)
	provider.AddAccount("prof@test.cd", testutil.ProviderAccount{
		UserID:   "t-1",
		Password: "pwd",
		Token:    "tok",
		Profile:  &identity.Profile{UserID: "t-1", Role: identity.RoleTeacher, Name: "Prof"},
	})

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"whoami"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"whoami", "-email", "prof@test.cd"}, wantErr: errHelp},
		{name: "wrong password", args: []string{"whoami", "-email", "prof@test.cd"}, extra: extra{pwd: "nope"}, wantErr: identity.ErrInvalidCredentials},
		{name: "ok", args: []string{"whoami", "-email", "prof@test.cd"}, extra: extra{pwd: "pwd"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr == identity.ErrInvalidCredentials {
				assert.True(t, errors.Is(err, identity.ErrInvalidCredentials), "err = %v", err)
				return
			}
			checkErr(t, tt, err)
		})
	}

	assert.Contains(t, out.String(), "role:    teacher")
	assert.Contains(t, out.String(), "name:    Prof")
	assert.NotContains(t, out.String(), "tok\n")
}
