package main

import (
	"bytes"
	"log/slog"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/notedock/notedock/internal/server"
)

func renderStatusTable(st server.Status, uptime string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"RUN ID", "STATE", "PID", "PORT", "UPTIME", "RECORD MODE"})
	tw.AppendRow(table.Row{
		st.RunID,
		st.State,
		strconv.Itoa(st.PID),
		strconv.Itoa(st.Port),
		uptime,
		strconv.FormatBool(st.RecordMode),
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}
