package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/personal/core/identity"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db          *sql.DB
	profileSvc  *identity.ProfileService
	identitySvc *identity.Service
	out         io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a migration command (up, down, status, version, redo, reset, up-to V, down-to V)")
	fmt.Fprintln(cli.out, "  setprofile -user-id ID -role teacher|student -name NAME - create or update a profile")
	fmt.Fprintln(cli.out, "  whoami -email EMAIL - log in and print the resolved identity; the password will be prompted next")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	setProfileCmd := flag.NewFlagSet("setprofile", flag.ContinueOnError)
	setProfileCmd.SetOutput(cli.out)
	setProfileUserID := setProfileCmd.String("user-id", "", "The identity provider's user id.")
	setProfileRole := setProfileCmd.String("role", string(identity.RoleStudent), "teacher or student.")
	setProfileName := setProfileCmd.String("name", "", "The display name.")

	whoamiCmd := flag.NewFlagSet("whoami", flag.ContinueOnError)
	whoamiCmd.SetOutput(cli.out)
	whoamiEmail := whoamiCmd.String("email", "", "The account email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "setprofile":
		if err := setProfileCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setProfileUserID == "" || *setProfileName == "" {
			setProfileCmd.Usage()
			return errHelp
		}
		return cli.setProfile(*setProfileUserID, *setProfileRole, *setProfileName)
	case "whoami":
		if err := whoamiCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *whoamiEmail == "" {
			whoamiCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			whoamiCmd.Usage()
			return errHelp
		}
		return cli.whoami(*whoamiEmail, string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
