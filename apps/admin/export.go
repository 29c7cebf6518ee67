package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core/attendance"
)

func (cli *commandLine) export(path, from, to string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	filter := attendance.QueryFilter{From: from, To: to}
	if err = cli.reportSvc.ExportAttendance(context.Background(), f, filter); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing export file")
	}
	fmt.Fprintf(cli.out, "attendance exported to %s\n", path)
	return nil
}
