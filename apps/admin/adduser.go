package main

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/hrms/core/user"
)

// addUser registers a user with the defaults of its role.
func (cli *commandLine) addUser(nu user.NewUser) error {
	ctx := context.Background()
	if err := nu.Validate(ctx, cli.validate, cli.translator, cli.usrSvc); err != nil {
		return err
	}

	usr := nu.Account(time.Now())
	if err := usr.SetPassword(nu.Password, cli.hasher); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(ctx, usr)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s <%s> added as %s (id %s)\n", usr.FullName(), usr.Email, usr.Role, usr.ID)
	return nil
}
