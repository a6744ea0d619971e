package main

import (
	"context"
	"encoding/json"
	"fmt"

	"hukukai-backend/config"
	"hukukai-backend/logging"
	"hukukai-backend/repository"
	"hukukai-backend/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the dependencies opened for one command invocation
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   repository.ReferenceStore
	service *service.ReferenceService
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "corpus",
		Short:         "Manage the legal reference corpus",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.AddCommand(
		newInitCmd(a),
		newResetCmd(a),
		newImportCmd(a),
		newStatsCmd(a),
		newAnalyzeCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		return err
	}

	store, err := repository.NewReferenceStore(ctx, cfg.StoreConfig())
	if err != nil {
		return fmt.Errorf("failed to open reference store: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.store = store
	a.service = service.NewReferenceService(
		service.WithReferenceStore(store),
		service.WithLogger(logger),
		service.WithLookupTimeout(cfg.LookupTimeout),
		service.WithResultLimit(cfg.ResultLimit),
	)
	return nil
}

func (a *app) close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
