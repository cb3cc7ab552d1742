package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
)

type processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// openProcessor migrates the target database and starts a single writer.
// Tests replace it.
var openProcessor = func(env *config.Config, logger *logrus.Logger) (processor, func(), error) {
	migration, err := storage.RunMigrations(env.PostgresDSN())
	if err != nil {
		return nil, nil, err
	}
	logger.WithField("postMigrationVersion", migration.PostMigrationVersion).Debug("storage.RunMigrations")

	store, err := storage.NewStorage(env)
	if err != nil {
		return nil, nil, err
	}
	delegator := operator.NewOperatorDelegator(store, 1, logger)
	delegator.Start()
	return delegator, func() {
		delegator.Stop()
		_ = store.Close()
	}, nil
}

var dumper = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}

func main() {
	logger := logging.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.WithError(err).Fatal("import-legacy")
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, logger *logrus.Logger) error {
	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fs := flag.NewFlagSet("import-legacy", flag.ContinueOnError)
	fs.SetOutput(stdout)
	source := fs.String("source", "", "Path to the legacy SQLite database (keuangan.db)")
	assignOrphans := fs.Bool("assign-orphans", false, "Give transactions without a valid owner to the first legacy user")
	dryRun := fs.Bool("dry-run", false, "Print the import plan without writing anything")
	adminUsername := fs.String("admin-username", env.AdminUsername, "Legacy username that becomes the administrator")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *source == "" {
		fmt.Fprintln(stdout, "Usage: import-legacy -source <keuangan.db> [-assign-orphans] [-dry-run]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: source")
	}

	db, err := openLegacy(ctx, *source)
	if err != nil {
		return fmt.Errorf("failed to open legacy database: %w", err)
	}
	defer db.Close()

	ledger, err := readLegacy(ctx, db)
	if err != nil {
		return err
	}

	plan, err := buildPlan(ledger, planOptions{AdminUsername: *adminUsername, AssignOrphans: *assignOrphans})
	if err != nil {
		return err
	}

	fields := logrus.Fields{
		"users":        len(plan.Users),
		"transactions": plan.Transactions,
	}
	if plan.Orphans > 0 {
		logger.WithFields(logrus.Fields{
			"orphans":    plan.Orphans,
			"assignedTo": plan.OrphansAssignedTo,
		}).Warn("buildPlan.orphans assigned")
	}

	if *dryRun {
		logger.WithFields(fields).Info("import-legacy.dry run")
		dumper.Fdump(stdout, plan)
		return nil
	}

	proc, closeFn, err := openProcessor(env, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeFn()

	action := &actions.ImportLedger{Users: plan.Users}
	if err := proc.Process(ctx, action); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	logger.WithFields(fields).Info("import-legacy.done")
	fmt.Fprintf(stdout, "Imported %d users and %d transactions\n", len(action.UserIDs), action.Transactions)
	return nil
}
