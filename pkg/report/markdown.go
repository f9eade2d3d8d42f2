package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/benchlab/benchreport/pkg/errors"
	"github.com/benchlab/benchreport/pkg/metadata"
	"github.com/benchlab/benchreport/pkg/organize"
)

// MarkdownFileName is the fixed name of the Markdown report artifact.
const MarkdownFileName = "report.md"

// RenderMarkdown writes report.md under outDir and returns its path.
// Images are embedded as relative links into the plots/<bucket>/ tree,
// grouped under level-3 headings per bucket.
func RenderMarkdown(outDir string, meta metadata.Record, csvs []organize.CSVSummary, sections []Section, opts Options, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Title == "" {
		opts.Title = "Data Analysis Report"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", opts.Title)

	sb.WriteString("## Metadata\n\n")
	fmt.Fprintf(&sb, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Part ID | %s |\n", meta.PartID)
	fmt.Fprintf(&sb, "| Descriptor | %s |\n", meta.Descriptor)
	fmt.Fprintf(&sb, "| Date | %s |\n", meta.Date)
	fmt.Fprintf(&sb, "| Time | %s |\n", meta.Time)
	if d := meta.HumanDate(); d != metadata.Unknown {
		fmt.Fprintf(&sb, "| Recorded | %s %s |\n", d, meta.HumanTime())
	}
	if opts.ShowLocalTime {
		fmt.Fprintf(&sb, "| Local time (UTC%+d) | %s |\n",
			opts.LocalTimeOffsetHours, meta.LocalTime(opts.LocalTimeOffsetHours))
	}
	sb.WriteString("\n")

	if len(csvs) > 0 {
		sb.WriteString("## CSV Summary\n\n")
		sb.WriteString("| File | Rows | Columns |\n|---|---|---|\n")
		for _, c := range csvs {
			fmt.Fprintf(&sb, "| %s | %d | %s |\n", c.File, c.Rows, strings.Join(c.Columns, ", "))
		}
		sb.WriteString("\n")
	}

	if len(sections) > 0 {
		sb.WriteString("## Plots\n\n")
	}
	for _, section := range sections {
		fmt.Fprintf(&sb, "### %s\n\n", section.Title)
		for _, f := range section.Files {
			rel, err := filepath.Rel(outDir, f)
			if err != nil {
				log.Warn("cannot relativize image path, using absolute",
					zap.String("path", f), zap.Error(err))
				rel = f
			}
			fmt.Fprintf(&sb, "![%s](%s)\n\n", filepath.Base(f), filepath.ToSlash(rel))
		}
	}

	outPath := filepath.Join(outDir, MarkdownFileName)
	if err := os.WriteFile(outPath, []byte(sb.String()), 0o644); err != nil {
		return "", errors.WrapIO(err, "MD_WRITE_FAILED", "cannot write markdown report").
			WithContext("path", outPath)
	}
	return outPath, nil
}
