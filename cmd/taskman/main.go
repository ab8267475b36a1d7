package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskman/internal/config"
	"taskman/internal/logger"
	"taskman/internal/service"
	"taskman/internal/storage"
	"taskman/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "taskman",
	Short: "taskman - weekly task manager",
	RunE:  runConsole,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show taskman version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", config.AppName, config.Version)
	},
}

var debugFlag bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if debugFlag {
		cfg.Debug = true
	}

	log, err := logger.New(cfg.LogDir, cfg.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting",
		zap.String("app", config.AppName),
		zap.String("version", config.Version),
		zap.String("dataDir", cfg.DataDir))

	taskStore, err := storage.NewTaskStore(cfg.DataDir, log)
	if err != nil {
		return fmt.Errorf("init task store: %w", err)
	}
	workspaceStore, err := storage.NewWorkspaceStore(cfg.DataDir, log)
	if err != nil {
		return fmt.Errorf("init workspace store: %w", err)
	}

	taskService := service.NewTaskService(taskStore, log)
	workspaceService := service.NewWorkspaceService(workspaceStore, taskStore, log)

	console := ui.NewConsoleUI(taskService, workspaceService, os.Stdin, os.Stdout, log)
	if err := console.Run(); err != nil {
		log.Error("fatal", zap.Error(err))
		return err
	}
	log.Info("finished")
	return nil
}
