package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/carson-networks/ledger-server/internal/common"
	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage"
)

type userCreator interface {
	CreateUser(ctx context.Context, username, password string, isAdmin bool) (*service.User, error)
}

var runMigrations = storage.RunMigrations

// openUsers migrates and connects to the configured database. Tests replace it.
var openUsers = func(env *config.Config) (userCreator, func(), error) {
	if _, err := runMigrations(env.PostgresDSN()); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	store, err := storage.NewStorage(env)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Ping(context.Background()); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	delegator := operator.NewOperatorDelegator(store, 1, logging.SetupLogging())
	delegator.Start()
	closeFn := func() {
		delegator.Stop()
		_ = store.Close()
	}
	return service.NewUserService(store, delegator), closeFn, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	isAdmin := fs.Bool("admin", false, "Create the administrator account")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> [-password <password>] [-admin]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	users, closeFn, err := openUsers(env)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeFn()

	user, err := users.CreateUser(context.Background(), *username, password, *isAdmin)
	if errors.Is(err, common.ErrorDuplicateKey) && *isAdmin {
		return fmt.Errorf("administrator %s not created: %w", strings.TrimSpace(*username), err)
	}
	if errors.Is(err, common.ErrorDuplicateKey) {
		return fmt.Errorf("user %s already exists", strings.TrimSpace(*username))
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	role := "user"
	if user.IsAdmin {
		role = "administrator"
	}
	fmt.Fprintf(stdout, "User %s created successfully with ID %d (%s)\n", user.Username, user.ID, role)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Pipes and tests.
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
