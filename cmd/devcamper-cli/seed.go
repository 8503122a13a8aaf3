package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/devcamper/internal/authz"
	"github.com/kailas-cloud/devcamper/internal/config"
	dbRedis "github.com/kailas-cloud/devcamper/internal/db/redis"
	"github.com/kailas-cloud/devcamper/internal/domain/schema"
	logpkg "github.com/kailas-cloud/devcamper/internal/logger"
	bootcamprepo "github.com/kailas-cloud/devcamper/internal/repository/bootcamp"
	courserepo "github.com/kailas-cloud/devcamper/internal/repository/course"
	"github.com/kailas-cloud/devcamper/internal/repository/resource"
	"github.com/kailas-cloud/devcamper/internal/transport/geocoder"
	bootcampuc "github.com/kailas-cloud/devcamper/internal/usecase/bootcamp"
	courseuc "github.com/kailas-cloud/devcamper/internal/usecase/course"
	"github.com/kailas-cloud/devcamper/internal/usecase/seed"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load or wipe fixture data",
	}
	cmd.AddCommand(newSeedImportCmd(), newSeedDestroyCmd())
	return cmd
}

func newSeedImportCmd() *cobra.Command {
	var bootcampsPath, coursesPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bootcamps and courses from JSON files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootcamps, err := readRecords(bootcampsPath)
			if err != nil {
				return err
			}
			var courses []map[string]any
			if coursesPath != "" {
				if courses, err = readRecords(coursesPath); err != nil {
					return err
				}
			}

			svc, closeFn, err := openSeeder(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := svc.Import(cmd.Context(), bootcamps, courses)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Data imported: %s bootcamps, %s courses\n",
				humanize.Comma(int64(st.Bootcamps)), humanize.Comma(int64(st.Courses)))
			return nil
		},
	}

	cmd.Flags().StringVar(&bootcampsPath, "bootcamps", "", "JSON array of bootcamps")
	cmd.Flags().StringVar(&coursesPath, "courses", "", "JSON array of courses")
	_ = cmd.MarkFlagRequired("bootcamps")
	return cmd
}

func newSeedDestroyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy",
		Short: "Delete every bootcamp and course",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := openSeeder(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := svc.Destroy(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Data destroyed: %s bootcamps, %s courses\n",
				humanize.Comma(int64(st.Bootcamps)), humanize.Comma(int64(st.Courses)))
			return nil
		},
	}
}

// readRecords decodes a JSON array of objects.
func readRecords(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var recs []map[string]any
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return recs, nil
}

// openSeeder wires the seed service against the configured store.
func openSeeder(ctx context.Context) (*seed.Service, func(), error) {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:       cfg.Database.Addrs,
		Username:    cfg.Database.Username,
		Password:    cfg.Database.Password,
		DB:          cfg.Database.DB,
		DialTimeout: time.Duration(cfg.Database.DialTimeoutSec) * time.Second,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	closeFn := func() {
		store.Close()
		_ = logger.Sync()
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("database not ready: %w", err)
	}

	bootcampRes := resource.Bootcamps(cfg.Storage.KeyPrefix)
	courseRes := resource.Courses(cfg.Storage.KeyPrefix)
	if err := resource.EnsureIndexes(ctx, store, bootcampRes, courseRes); err != nil {
		closeFn()
		return nil, nil, err
	}

	provider, err := geocoder.New(geocoder.Config{
		Provider: cfg.Geocoder.Provider,
		APIKey:   cfg.Geocoder.APIKey,
		BaseURL:  cfg.Geocoder.BaseURL,
		Timeout:  time.Duration(cfg.Geocoder.TimeoutSec) * time.Second,
		Logger:   logger,
	})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	enforcer, err := authz.New()
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	schemas := schema.MustLoad()

	bootcampRepo := bootcamprepo.New(store, bootcampRes)
	courseRepo := courserepo.New(store, courseRes)
	bootcampSvc := bootcampuc.New(bootcampRepo, courseRepo, provider, nil, schemas, enforcer,
		cfg.Uploads.MaxFileUpload, logger)
	courseSvc := courseuc.New(courseRepo, bootcampRepo, schemas, enforcer, logger)

	logger.Info("Seeder connected", zap.Strings("db_addrs", cfg.Database.Addrs))
	return seed.New(bootcampSvc, courseSvc, bootcampRepo, courseRepo, logger), closeFn, nil
}
