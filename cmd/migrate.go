package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/traincore/certassist/internal/catalog"
	"github.com/traincore/certassist/internal/model"
	"github.com/traincore/certassist/internal/roster"
	"github.com/traincore/certassist/internal/store"
)

var (
	importFile string
	seedFile   string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return err
		}
		fmt.Println("schema up to date")
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an employee roster from an xlsx file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		employees, err := roster.ReadEmployees(importFile)
		if err != nil {
			return err
		}

		n, err := importEmployees(ctx, st, employees)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d employees from %s\n", n, importFile)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the certificate-type catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		types, err := loadCatalog()
		if err != nil {
			return err
		}

		n, err := seedCertificateTypes(ctx, st, types)
		if err != nil {
			return err
		}
		fmt.Printf("seeded %d certificate types\n", n)
		return nil
	},
}

func loadCatalog() ([]model.CertificateType, error) {
	if seedFile != "" {
		return catalog.LoadFile(seedFile)
	}
	return catalog.Load()
}

// seedCertificateTypes upserts on postgres and falls back to
// insert-if-absent by name elsewhere. Reruns are safe either way.
func seedCertificateTypes(ctx context.Context, st store.Store, types []model.CertificateType) (int64, error) {
	if pg, ok := st.(*store.PostgresStore); ok {
		return pg.UpsertCertificateTypes(ctx, types)
	}

	existing, err := st.ListCertificateTypes(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, ct := range existing {
		seen[ct.Name] = true
	}

	var n int64
	for i := range types {
		if seen[types[i].Name] {
			continue
		}
		if err := st.CreateCertificateType(ctx, &types[i]); err != nil {
			zap.L().Warn("certificate type seed skipped",
				zap.String("name", types[i].Name),
				zap.Error(err))
			continue
		}
		n++
	}
	return n, nil
}

// importEmployees bulk-copies on postgres and falls back to row-by-row
// inserts elsewhere.
func importEmployees(ctx context.Context, st store.Store, employees []model.Employee) (int64, error) {
	if pg, ok := st.(*store.PostgresStore); ok {
		return pg.ImportEmployees(ctx, employees)
	}

	var n int64
	for i := range employees {
		if err := st.CreateEmployee(ctx, &employees[i]); err != nil {
			zap.L().Warn("employee import skipped",
				zap.String("name", employees[i].FullName()),
				zap.Error(err))
			continue
		}
		n++
	}
	return n, nil
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "roster xlsx file")
	importCmd.MarkFlagRequired("file") //nolint:errcheck
	seedCmd.Flags().StringVar(&seedFile, "file", "", "catalog yaml file (defaults to the built-in catalog)")
	migrateCmd.AddCommand(importCmd)
	migrateCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(migrateCmd)
}
