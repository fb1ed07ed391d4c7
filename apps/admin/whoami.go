package main

import (
	"context"
	"fmt"

	"github.com/trezcool/personal/core/identity"
)

// whoami logs in with the given credentials, prints the resolved identity and logs out.
func (cli *commandLine) whoami(email, pwd string) error {
	sess, err := cli.identitySvc.Login(context.Background(), identity.Credentials{Email: email, Password: pwd})
	if err != nil {
		return err
	}
	defer cli.identitySvc.Logout(sess.ID)

	id := sess.Identity
	fmt.Fprintf(cli.out, "user id: %s\nemail:   %s\nrole:    %s\nname:    %s\n", id.UserID, id.Email, id.Role, id.DisplayName)
	return nil
}
