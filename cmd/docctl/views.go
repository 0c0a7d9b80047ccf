package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"docmanager-backend/internal/client"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func printUsers(w io.Writer, list []client.User) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tCREATED")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, formatTime(u.CreatedAt))
	}
	return tw.Flush()
}

func printUser(w io.Writer, u client.User) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	fmt.Fprintf(tw, "Created:\t%s\n", formatTime(u.CreatedAt))
	fmt.Fprintf(tw, "Updated:\t%s\n", formatTime(u.UpdatedAt))
	return tw.Flush()
}

func uploaderLabel(u *client.Uploader) string {
	if u == nil {
		return "(deleted user)"
	}
	return u.Email
}

func printDocuments(w io.Writer, list []client.Document) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tFILE\tSIZE\tUPLOADED BY\tCREATED")
	for _, d := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", d.ID, d.Title, d.FileName, d.SizeBytes, uploaderLabel(d.UploadedBy), formatTime(d.CreatedAt))
	}
	return tw.Flush()
}

func printDocument(w io.Writer, d client.Document) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", d.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", d.Title)
	fmt.Fprintf(tw, "Description:\t%s\n", orDash(d.Description))
	fmt.Fprintf(tw, "File:\t%s (%s, %d bytes)\n", d.FileName, orDash(d.MimeType), d.SizeBytes)
	fmt.Fprintf(tw, "Uploaded by:\t%s\n", uploaderLabel(d.UploadedBy))
	fmt.Fprintf(tw, "Created:\t%s\n", formatTime(d.CreatedAt))
	fmt.Fprintf(tw, "Updated:\t%s\n", formatTime(d.UpdatedAt))
	return tw.Flush()
}

func printIngestions(w io.Writer, list []client.Ingestion) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSOURCE\tSTATUS\tLOGS\tCREATED\tUPDATED")
	for _, j := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", j.ID, j.SourceType, j.Status, len(j.Logs), formatTime(j.CreatedAt), formatTime(j.UpdatedAt))
	}
	return tw.Flush()
}

func printIngestion(w io.Writer, j client.Ingestion) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", j.ID)
	fmt.Fprintf(tw, "Source:\t%s\n", j.SourceType)
	fmt.Fprintf(tw, "Status:\t%s\n", j.Status)
	fmt.Fprintf(tw, "Created:\t%s\n", formatTime(j.CreatedAt))
	fmt.Fprintf(tw, "Updated:\t%s\n", formatTime(j.UpdatedAt))
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(j.Logs) == 0 {
		return nil
	}
	fmt.Fprintln(w, "Logs:")
	for _, line := range j.Logs {
		fmt.Fprintf(w, "  %s\n", line)
	}
	return nil
}
