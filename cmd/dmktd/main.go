package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	dbm "github.com/tendermint/tm-db"

	"github.com/swth/dmkt/config"
	"github.com/swth/dmkt/libs/log"
	"github.com/swth/dmkt/processor"
	"github.com/swth/dmkt/server"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dmktd",
		Short: "market transaction processor daemon",
	}
	cmd.AddCommand(startCmd())
	return cmd
}

func startCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the processor and serve the transaction socket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			viper.SetEnvPrefix("DMKT")
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
			viper.AutomaticEnv()
			if cfgFile := viper.GetString("config"); cfgFile != "" {
				viper.SetConfigFile(cfgFile)
				if err := viper.ReadInConfig(); err != nil {
					return fmt.Errorf("reading config: %w", err)
				}
			}
			if err := viper.Unmarshal(cfg); err != nil {
				return fmt.Errorf("decoding config: %w", err)
			}
			if err := cfg.ValidateBasic(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return start(cfg)
		},
	}

	cmd.Flags().String("config", "", "path to a config file")
	cmd.Flags().String("listen_addr", cfg.ListenAddr, "transaction socket listen address")
	cmd.Flags().String("db_backend", cfg.DBBackend, "database backend (memdb or goleveldb)")
	cmd.Flags().String("db_dir", cfg.DBDir, "database directory")
	cmd.Flags().String("log_level", cfg.LogLevel, "log level (debug, info, error)")
	cmd.Flags().Bool("prometheus", cfg.Prometheus, "serve prometheus metrics")
	cmd.Flags().String("prometheus_addr", cfg.PrometheusAddr, "prometheus listen address")
	return cmd
}

func start(cfg *config.Config) error {
	logger, err := log.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	db, err := dbm.NewDB("market", dbm.BackendType(cfg.DBBackend), cfg.DBDir)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	store := processor.NewDBStore(db)

	opts := []processor.Option{}
	if cfg.Prometheus {
		opts = append(opts, processor.WithMetrics(processor.PrometheusMetrics("dmkt")))
		go func() {
			srv := &http.Server{Addr: cfg.PrometheusAddr, Handler: promhttp.Handler()}
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("prometheus server failed", "err", err)
			}
		}()
	}
	proc := processor.New(store, logger.With("module", "processor"), opts...)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(logger.With("module", "server"), stripScheme(cfg.ListenAddr), proc, store)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	defer srv.Stop()

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func stripScheme(addr string) string {
	return strings.TrimPrefix(addr, "tcp://")
}
