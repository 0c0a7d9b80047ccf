package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docmanager-backend/internal/client"
)

func (a *cli) documentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "Browse and manage documents",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List documents",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client()
				if err != nil {
					return err
				}
				list, err := c.ListDocuments(cmd.Context())
				if err != nil {
					return err
				}
				return printDocuments(cmd.OutOrStdout(), list)
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show one document",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client()
				if err != nil {
					return err
				}
				doc, err := c.GetDocument(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printDocument(cmd.OutOrStdout(), doc)
			},
		},
		a.documentUploadCmd(),
		a.documentEditCmd(),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a document and its file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client()
				if err != nil {
					return err
				}
				if err := c.DeleteDocument(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Document deleted successfully")
				return nil
			},
		},
		a.documentDownloadCmd(),
	)
	return cmd
}

func (a *cli) documentUploadCmd() *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a file as a new document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			c, err := a.client()
			if err != nil {
				return err
			}
			doc, err := c.UploadDocument(cmd.Context(), client.DocumentUpload{
				Title:       &title,
				Description: &description,
				FileName:    filepath.Base(args[0]),
				Body:        f,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Document uploaded successfully")
			return printDocument(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "document title")
	cmd.Flags().StringVar(&description, "description", "", "optional description")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (a *cli) documentEditCmd() *cobra.Command {
	var title, description, file string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a document's title, description or file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if _, err := c.GetDocument(cmd.Context(), args[0]); err != nil {
				return err
			}

			var edit client.DocumentUpload
			flags := cmd.Flags()
			if flags.Changed("title") {
				edit.Title = &title
			}
			if flags.Changed("description") {
				edit.Description = &description
			}
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				edit.FileName = filepath.Base(file)
				edit.Body = f
			}

			doc, err := c.UpdateDocument(cmd.Context(), args[0], edit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Document updated successfully")
			return printDocument(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&file, "file", "", "replacement file")
	return cmd
}

func (a *cli) documentDownloadCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download ID",
		Short: "Download a document's file",
		Long:  "Download a document's file. Writes to the original file name unless --output is given; --output - writes to stdout.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if output == "-" {
				_, err := c.DownloadDocument(cmd.Context(), args[0], cmd.OutOrStdout())
				return err
			}
			if output == "" {
				doc, err := c.GetDocument(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				output = filepath.Base(doc.FileName)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			n, err := c.DownloadDocument(cmd.Context(), args[0], f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(output)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d bytes to %s\n", n, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination path, or - for stdout")
	return cmd
}
