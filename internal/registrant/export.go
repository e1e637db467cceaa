// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package registrant

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/roster/pkg/pointer"
)

// # CSV Export

const (
	// ExportFilename is offered to the browser in Content-Disposition.
	ExportFilename = "users.csv"

	// ExportContentType is the media type of the export.
	ExportContentType = "text/csv; charset=utf-8"

	// exportHeader is the first line of every export.
	exportHeader = "ID,Name,Email,Mobile,Address,IP Address,IP Location,Registration Date"

	// exportTimeLayout is ISO 8601 in UTC with millisecond precision.
	exportTimeLayout = "2006-01-02T15:04:05.000Z"
)

/*
WriteCSV renders users as the admin export.

Format:
  - First line is the fixed header.
  - id is written bare; every other field is wrapped in double quotes with
    embedded quotes doubled, including empty ones.
  - Registration Date is UTC with milliseconds, or empty when unset.
  - Lines are separated by "\n" with no trailing newline.

encoding/csv only quotes fields that need it, which would change the byte
layout admins' spreadsheets already import.
*/
func WriteCSV(writer io.Writer, users []*User) error {
	buffered := bufio.NewWriter(writer)

	if _, err := buffered.WriteString(exportHeader); err != nil {
		return err
	}

	for _, user := range users {
		fields := []string{
			user.Name,
			user.Email,
			user.Mobile,
			user.Address,
			pointer.Val(user.IPAddress),
			pointer.Val(user.IPLocation),
			formatExportTime(user.CreatedAt),
		}

		var line strings.Builder
		line.WriteByte('\n')
		line.WriteString(strconv.FormatInt(user.ID, 10))
		for _, field := range fields {
			line.WriteByte(',')
			line.WriteString(quoteField(field))
		}

		if _, err := buffered.WriteString(line.String()); err != nil {
			return err
		}
	}

	return buffered.Flush()
}

func quoteField(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func formatExportTime(at time.Time) string {
	if at.IsZero() {
		return ""
	}
	return at.UTC().Format(exportTimeLayout)
}
