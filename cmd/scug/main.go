package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/secangkircinta/scug/cmd/scug/commands"
)

// @title Secangkir Cinta Untuk Guru API
// @version 1.0
// @description Back-office and volunteer API for donation projects, tasks and their media

// @contact.name Secangkir Cinta Untuk Guru
// @contact.url https://github.com/secangkircinta/scug

// @license.name MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:          "scug",
		Short:        "Secangkir Cinta Untuk Guru API server",
		Long:         `scug serves the donation back-office and the volunteer task board, and carries the maintenance commands for its database and object storage.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewAdminCommand())
	rootCmd.AddCommand(commands.NewStorageCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
