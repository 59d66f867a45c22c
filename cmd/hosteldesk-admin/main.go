package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/hosteldesk/hosteldesk/config"
	"github.com/hosteldesk/hosteldesk/internal/bootstrap"
	"github.com/hosteldesk/hosteldesk/internal/devseed"
	"github.com/hosteldesk/hosteldesk/internal/domain/model"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrationsCommand,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Run database migrations and seed development data",
			run:         runDBSeed,
		},
		"list-students": {
			name:        "list-students",
			description: "List registered student accounts",
			run:         runListStudents,
		},
		"list-rooms": {
			name:        "list-rooms",
			description: "List rooms with occupancy and status",
			run:         runListRooms,
		},
		"sweep-overdue": {
			name:        "sweep-overdue",
			description: "Flag pending payments past their due date as overdue",
			run:         runSweepOverdue,
		},
		"purge-reset-tokens": {
			name:        "purge-reset-tokens",
			description: "Remove expired password reset tokens from credentials",
			run:         runPurgeResetTokens,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: hosteldesk-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	for _, c := range commands() {
		if err := writef(os.Stdout, "  %-20s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func runMigrationsCommand(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "maximum time to wait for migrations")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, *timeout)
	defer cancel()

	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx.Logger, db)

	return bootstrap.RunMigrations(ctx, db, cmdCtx.Logger)
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "maximum time to wait for migrations and seeding")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, *timeout)
	defer cancel()

	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx.Logger, db)

	if err = bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
		return err
	}

	services := buildServices(cmdCtx, db)
	return devseed.Run(ctx, devseed.Services{
		Auth:          services.Auth,
		Rooms:         services.Rooms,
		Announcements: services.Announcements,
	}, cmdCtx.Logger)
}

func runListStudents(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx.Logger, db)

	services := buildServices(cmdCtx, db)
	students, err := services.Accounts.ListStudents(ctx)
	if err != nil {
		return err
	}

	return printStudents(os.Stdout, students)
}

func printStudents(out *os.File, students []model.Account) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLL NO\tCREATED"); err != nil {
		return err
	}
	for _, s := range students {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Email, s.Profile.DisplayName, s.Profile.RollNo,
			s.CreatedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return writef(out, "\n%d student(s)\n", len(students))
}

func runListRooms(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx.Logger, db)

	services := buildServices(cmdCtx, db)
	rooms, err := services.Rooms.List(ctx)
	if err != nil {
		return err
	}

	return printRooms(os.Stdout, rooms)
}

func printRooms(out *os.File, rooms []model.Room) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ROOM\tBLOCK\tFLOOR\tTYPE\tOCCUPANCY\tSTATUS"); err != nil {
		return err
	}
	for _, r := range rooms {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			r.RoomNumber, r.Block, r.Floor, r.Type,
			r.CurrentOccupants, r.Capacity, r.Status); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return writef(out, "\n%d room(s)\n", len(rooms))
}

func runSweepOverdue(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx.Logger, db)

	services := buildServices(cmdCtx, db)
	flagged, err := services.Payments.MarkOverdue(ctx, time.Now())
	if err != nil {
		return err
	}

	cmdCtx.Logger.Info("overdue sweep complete", "flagged", flagged)
	return nil
}

func runPurgeResetTokens(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("purge-reset-tokens", flag.ContinueOnError)
	batch := fs.Int("batch", 1000, "maximum credentials purged per pass")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx.Logger, db)

	services := buildServices(cmdCtx, db)
	total := 0
	for {
		purged, purgeErr := services.TokenPurger.PurgeExpiredResetTokens(ctx, time.Now(), *batch)
		if purgeErr != nil {
			return purgeErr
		}
		total += purged
		if purged < *batch {
			break
		}
	}

	cmdCtx.Logger.Info("reset token purge complete", "purged", total)
	return nil
}

func writef(out *os.File, format string, args ...any) error {
	_, err := fmt.Fprintf(out, format, args...)
	return err
}
