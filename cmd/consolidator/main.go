// Command consolidator merges the legacy job-search SQLite databases into one
// unified database and serves a read-only view of the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-consolidator/internal/api"
	"job-consolidator/internal/catalog"
	"job-consolidator/internal/database"
	"job-consolidator/internal/logger"
	"job-consolidator/internal/migrate"
	"job-consolidator/internal/models"
	"job-consolidator/internal/runstore"
	"job-consolidator/internal/utils"
)

const usage = `usage: consolidator <command> [flags]

commands:
  migrate   rebuild the unified database from the legacy sources
  serve     serve the read-only inspection API
  runs      list previous migration runs, or delete one
  token     print a bearer token for the inspection API
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	params := loadEnv()
	log := logger.NewConsoleLogger(os.Stderr, "[consolidator]", 0, logger.ParseLevel(params.LogLevel))

	var err error
	switch os.Args[1] {
	case "migrate":
		err = runMigrate(params, log, os.Args[2:])
	case "serve":
		err = api.NewApi(params, log).Start()
	case "runs":
		err = runList(params, os.Args[2:])
	case "token":
		err = runToken(params, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func runMigrate(p models.EnvParams, log logger.Logger, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	force := fs.Bool("force", false, "replace an existing unified database")
	staged := fs.Bool("staged", p.StagedBuild, "build next to the target and swap it in only on success")
	dataDir := fs.String("data", p.DataDir, "directory holding the legacy databases")
	dest := fs.String("dest", p.DbPath, "unified database to build")
	fs.Parse(args)

	if err := database.CheckDestination(*dest, *force); err != nil {
		return err
	}
	schema, err := database.LoadSchema(p.SchemaPath)
	if err != nil {
		return err
	}

	cfg := migrate.Config{
		DestPath:   *dest,
		Sources:    catalog.Default(*dataDir),
		SchemaSQL:  schema,
		Staged:     *staged,
		ReportPath: p.ReportPath,
		Out:        os.Stdout,
	}
	runs, err := runstore.NewBuntDBRunStore(runStorePath(p.RunStorePath, *dest))
	if err != nil {
		log.Warn("Run history disabled: %v", err)
	} else {
		defer runs.Close()
		cfg.Runs = runs
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = migrate.NewSession(cfg, log).Execute(ctx)
	return err
}

func runList(p models.EnvParams, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	limit := fs.Int("limit", 20, "number of runs to list")
	del := fs.String("delete", "", "remove the run with this id from the history")
	fs.Parse(args)

	runs, err := runstore.NewBuntDBRunStore(runStorePath(p.RunStorePath, p.DbPath))
	if err != nil {
		return err
	}
	defer runs.Close()

	if *del != "" {
		if err := runs.DeleteReport(*del); err != nil {
			return err
		}
		fmt.Printf("deleted run %s\n", *del)
		return nil
	}

	reports, err := runs.ListReports(*limit)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, r := range reports {
		status := "ok"
		if !r.Success {
			status = "failed"
			if r.FailedStage != "" {
				status += " (" + r.FailedStage + ")"
			}
		}
		fmt.Printf("%s  %s  %-20s migrated=%d/%d duplicates=%d errors=%d\n",
			r.RunID, r.StartedAt, status, r.Stats.TotalMigrated, r.Stats.TotalProcessed,
			r.Stats.DuplicatesRemoved, len(r.Stats.Errors))
	}
	return nil
}

func runToken(p models.EnvParams, args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	subject := fs.String("subject", "consolidator-cli", "token subject")
	ttl := fs.Duration("ttl", utils.DefaultTokenTTL, "token lifetime")
	fs.Parse(args)

	if p.JWTToken == "" {
		return errors.New("JWT_TOKEN environment variable must be set")
	}
	utils.SetJWTSecret(p.JWTToken)
	token, err := utils.GenerateJWT(*subject, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", time.Now().Add(*ttl).Format(time.RFC3339))
	return nil
}
