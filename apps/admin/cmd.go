package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/report"
	"github.com/trezcool/hrms/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp         = errors.New("help provided")
	errNoMigrations = errors.New("migrations only apply to sql stores")
)

// migrator is implemented by stores having a schema.
type migrator interface {
	Migrate(command string, args ...string) error
}

type commandLine struct {
	store      core.Store
	usrSvc     *user.Service
	reportSvc  *report.Service
	hasher     user.PasswordHasher
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  seed - write the demo data into empty collections")
	fmt.Fprintln(cli.out, "  adduser -employee-id ID -email EMAIL -first NAME -last NAME [-admin] - register a user")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset user's password")
	fmt.Fprintln(cli.out, "  export -out FILE [-from YYYY-MM-DD] [-to YYYY-MM-DD] - export attendance to xlsx")
	fmt.Fprintln(cli.out, "  migrate COMMAND [VERSION] - run sql store migrations (up, up-by-one, up-to, down, down-to, redo, status, version)")
}

// promptPassword reads a password without echoing it. An empty password prints usage.
func (cli *commandLine) promptPassword(fs *flag.FlagSet) (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserEmployeeID := addUserCmd.String("employee-id", "", "The user's employee ID.")
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserFirst := addUserCmd.String("first", "", "The user's first name.")
	addUserLast := addUserCmd.String("last", "", "The user's last name.")
	addUserAdmin := addUserCmd.Bool("admin", false, "Give the user the admin role.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportOut := exportCmd.String("out", "", "The xlsx file to write.")
	exportFrom := exportCmd.String("from", "", "First day exported (YYYY-MM-DD).")
	exportTo := exportCmd.String("to", "", "Last day exported (YYYY-MM-DD).")

	for _, fs := range []*flag.FlagSet{addUserCmd, resetPasswordCmd, exportCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "seed":
		return cli.seed()

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmployeeID == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(addUserCmd)
		if err != nil {
			return err
		}
		role := user.RoleEmployee
		if *addUserAdmin {
			role = user.RoleAdmin
		}
		return cli.addUser(user.NewUser{
			EmployeeID: *addUserEmployeeID,
			Email:      *addUserEmail,
			Password:   pwd,
			FirstName:  *addUserFirst,
			LastName:   *addUserLast,
			Role:       role,
		})

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportOut, *exportFrom, *exportTo)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}
