package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"docmanager-backend/internal/client"
)

func (a *cli) ingestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingestions",
		Short: "Track ingestion jobs",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List ingestion jobs, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client()
				if err != nil {
					return err
				}
				list, err := c.ListIngestions(cmd.Context())
				if err != nil {
					return err
				}
				return printIngestions(cmd.OutOrStdout(), list)
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show one ingestion job with its logs",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client()
				if err != nil {
					return err
				}
				job, err := c.GetIngestion(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printIngestion(cmd.OutOrStdout(), job)
			},
		},
		a.ingestionCreateCmd(),
		a.ingestionEditCmd(),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete an ingestion job (admin only)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client()
				if err != nil {
					return err
				}
				if err := c.DeleteIngestion(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Ingestion job deleted")
				return nil
			},
		},
	)
	return cmd
}

func (a *cli) ingestionCreateCmd() *cobra.Command {
	var sourceType string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pending ingestion job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			job, err := c.CreateIngestion(cmd.Context(), sourceType)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Ingestion job created")
			return printIngestion(cmd.OutOrStdout(), job)
		},
	}
	cmd.Flags().StringVar(&sourceType, "source-type", "", "where the data comes from, e.g. s3 or upload")
	_ = cmd.MarkFlagRequired("source-type")
	return cmd
}

func (a *cli) ingestionEditCmd() *cobra.Command {
	var (
		status    string
		logs      []string
		createdAt string
	)
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Set status, append log lines or backdate an ingestion job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if _, err := c.GetIngestion(cmd.Context(), args[0]); err != nil {
				return err
			}

			edit := ingestionEdit(status, logs)
			if createdAt != "" {
				ts, err := time.Parse(time.RFC3339, createdAt)
				if err != nil {
					return fmt.Errorf("--created-at must be RFC3339: %w", err)
				}
				edit.CreatedAt = &ts
			}

			job, err := c.UpdateIngestion(cmd.Context(), args[0], edit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Ingestion job updated")
			return printIngestion(cmd.OutOrStdout(), job)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "pending, running, completed or failed")
	cmd.Flags().StringArrayVar(&logs, "log", nil, "log line to append (repeatable)")
	cmd.Flags().StringVar(&createdAt, "created-at", "", "override creation time (RFC3339)")
	return cmd
}

func ingestionEdit(status string, logs []string) client.IngestionEdit {
	var edit client.IngestionEdit
	if strings.TrimSpace(status) != "" {
		s := strings.TrimSpace(status)
		edit.Status = &s
	}
	edit.Logs = logs
	return edit
}
