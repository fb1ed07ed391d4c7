package main

import (
	"context"
	"fmt"

	"github.com/trezcool/personal/core/identity"
)

// setProfile creates or updates an identity.Profile
func (cli *commandLine) setProfile(userID, role, name string) error {
	prof, err := cli.profileSvc.Save(context.Background(), identity.NewProfile{
		UserID: userID,
		Role:   identity.Role(role),
		Name:   name,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "profile saved: %s (%s) %s\n", prof.UserID, prof.Role, prof.Name)
	return nil
}
