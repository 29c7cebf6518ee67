package main

import (
	"context"
	"fmt"

	"github.com/trezcool/hrms/storage/seed"
)

func (cli *commandLine) seed() error {
	res, err := seed.Initialize(context.Background(), cli.store, seed.Options{Hasher: cli.hasher})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "seeded: users=%t attendance=%t leave=%t\n", res.Users, res.Attendance, res.Leave)
	return nil
}
