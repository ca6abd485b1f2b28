//cmd/seeder/main.go
package main

import (
    "context"
    "errors"
    "fmt"
    "os"

    "github.com/spf13/cobra"

    "github.com/unclebandit/relief-campaign/internal/config"
    appErrors "github.com/unclebandit/relief-campaign/internal/errors"
    "github.com/unclebandit/relief-campaign/internal/db"
    "github.com/unclebandit/relief-campaign/internal/logger"
    "github.com/unclebandit/relief-campaign/internal/model"
    "github.com/unclebandit/relief-campaign/internal/repository"
)

var rootCmd = &cobra.Command{
    Use:   "seeder",
    Short: "Database migration and seeding tool for the relief campaign service",
}

var migrateCmd = &cobra.Command{
    Use:   "migrate",
    Short: "Manage the contacts schema",
}

var upCmd = &cobra.Command{
    Use:   "up",
    Short: "Run all pending migrations",
    RunE:  runUp,
}

var downCmd = &cobra.Command{
    Use:   "down",
    Short: "Rollback the last migration",
    RunE:  runDown,
}

var seedCmd = &cobra.Command{
    Use:   "seed",
    Short: "Insert the example contacts if they are missing",
    RunE:  runSeed,
}

func init() {
    migrateCmd.AddCommand(upCmd)
    migrateCmd.AddCommand(downCmd)
    rootCmd.AddCommand(migrateCmd)
    rootCmd.AddCommand(seedCmd)
}

func main() {
    if err := rootCmd.Execute(); err != nil {
        fmt.Fprintf(os.Stderr, "Error: %v\n", err)
        os.Exit(1)
    }
}

func open() (*db.DB, *logger.Logger, error) {
    cfg, err := config.Load()
    if err != nil {
        return nil, nil, fmt.Errorf("failed to load config: %w", err)
    }
    log := logger.New(cfg.Log.Level, cfg.Log.Format)

    database, err := db.Open(cfg.Database)
    if err != nil {
        return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
    }
    return database, log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
    database, log, err := open()
    if err != nil {
        return err
    }
    defer database.Close()

    log.Info().Msg("running migrations...")
    if err := database.MigrateUp(); err != nil {
        return err
    }
    log.Info().Msg("migrations completed successfully")
    return nil
}

func runDown(cmd *cobra.Command, args []string) error {
    database, log, err := open()
    if err != nil {
        return err
    }
    defer database.Close()

    log.Info().Msg("rolling back last migration...")
    if err := database.MigrateDown(); err != nil {
        return err
    }
    log.Info().Msg("rollback completed successfully")
    return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
    database, log, err := open()
    if err != nil {
        return err
    }
    defer database.Close()

    if err := database.MigrateUp(); err != nil {
        return err
    }

    repo := &repository.ContactRepository{DB: database.DB}
    inserted, err := seedContacts(cmd.Context(), repo, exampleContacts(), log)
    if err != nil {
        return err
    }
    log.Info().Int("inserted", inserted).Msg("database seeding completed successfully")
    return nil
}

func ptr(s string) *string { return &s }

func exampleContacts() []model.NewContact {
    return []model.NewContact{
        {Name: "Aditya Chan", Email: ptr("aditya.chan@example.com"), Phone: ptr("+15551234567")},
        {Name: "King Chan", Email: ptr("king.chan@example.com")},
        {Name: "Test User NoEmail", Phone: ptr("+15557654321")},
    }
}

// seedContacts inserts each contact whose email, or phone when it has no
// email, is not stored yet.
func seedContacts(ctx context.Context, repo *repository.ContactRepository, contacts []model.NewContact, log *logger.Logger) (int, error) {
    inserted := 0
    for _, c := range contacts {
        var (
            existing *model.Contact
            err      error
        )
        if c.Email != nil {
            existing, err = repo.GetByEmail(ctx, *c.Email)
        } else if c.Phone != nil {
            existing, err = repo.GetByPhone(ctx, *c.Phone)
        }
        if err != nil {
            return inserted, err
        }
        if existing != nil {
            log.Debug().Str("name", c.Name).Msg("contact already seeded")
            continue
        }

        if _, err := repo.Create(ctx, c); err != nil {
            var uErr *appErrors.UniqueViolationError
            if errors.As(err, &uErr) {
                log.Warn().Err(err).Str("name", c.Name).Msg("skipping example contact")
                continue
            }
            return inserted, fmt.Errorf("failed to seed %s: %w", c.Name, err)
        }
        log.Info().Str("name", c.Name).Msg("seeded contact")
        inserted++
    }
    return inserted, nil
}
