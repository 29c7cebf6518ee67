package main

import (
	"context"
	"fmt"

	"github.com/trezcool/hrms/core/user"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	np := user.NewPassword{Password: pwd}
	if err := np.Validate(cli.validate, cli.translator); err != nil {
		return err
	}

	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err = usr.SetPassword(np.Password, cli.hasher); err != nil {
		return err
	}
	updated, err := cli.usrSvc.Update(ctx, usr)
	if err != nil {
		return err
	}
	if !updated {
		return user.ErrNotFound
	}
	fmt.Fprintf(cli.out, "password of %s reset\n", usr.Email)
	return nil
}
