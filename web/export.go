package web

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/thewug/eventmaster/store"
)

// The leading byte order mark makes Excel open the file as UTF-8.
const csvHeader = "\uFEFF組別,成員姓名\n"

const CSV_CONTENT_TYPE = "text/csv;charset=utf-8;"

// WriteGroupsCSV writes one quoted row per member, group name first.
func WriteGroupsCSV(w io.Writer, groups []store.Group) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(csvHeader)

	for _, g := range groups {
		for _, m := range g.Members {
			bw.WriteString(csvQuote(g.GroupName))
			bw.WriteByte(',')
			bw.WriteString(csvQuote(m.Name))
			bw.WriteByte('\n')
		}
	}

	return bw.Flush()
}

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportFilename is the download name for groups exported on day t.
func ExportFilename(t time.Time) string {
	return "分組結果_" + t.Format("2006-01-02") + ".csv"
}
