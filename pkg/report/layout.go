// Package report lays classified plot images out into a paginated
// report artifact (PDF or Markdown).
package report

import (
	"github.com/benchlab/benchreport/pkg/classify"
)

// GridTier is one step of the grid-density function: bucket item counts
// up to MaxItems get Columns columns of ImageWidth-wide cells.
// MaxItems == 0 marks the unbounded final tier.
type GridTier struct {
	MaxItems   int     `yaml:"max_items"`
	Columns    int     `yaml:"columns"`
	ImageWidth float64 `yaml:"image_width"`
}

// Geometry is the page/grid geometry passed into the layout engine.
// All lengths are millimeters on an A4 portrait page.
type Geometry struct {
	ContentLeft     float64    `yaml:"content_left"`
	ContentWidth    float64    `yaml:"content_width"`
	CellGapX        float64    `yaml:"cell_gap_x"`
	RowGapY         float64    `yaml:"row_gap_y"`
	PageBreakY      float64    `yaml:"page_break_y"`
	AutoBreakMargin float64    `yaml:"auto_break_margin"`
	AspectRatio     float64    `yaml:"aspect_ratio"`
	Tiers           []GridTier `yaml:"tiers"`
}

// DefaultGeometry returns the tuned geometry the bench reports have
// always used.
func DefaultGeometry() Geometry {
	return Geometry{
		ContentLeft:     10,
		ContentWidth:    190,
		CellGapX:        2,
		RowGapY:         5,
		PageBreakY:      250,
		AutoBreakMargin: 15,
		AspectRatio:     0.75,
		Tiers: []GridTier{
			{MaxItems: 2, Columns: 1, ImageWidth: 150},
			{MaxItems: 6, Columns: 2, ImageWidth: 94},
			{MaxItems: 0, Columns: 3, ImageWidth: 62},
		},
	}
}

// TierFor selects the grid tier for a bucket with n items.
func (g Geometry) TierFor(n int) GridTier {
	for _, t := range g.Tiers {
		if t.MaxItems > 0 && n <= t.MaxItems {
			return t
		}
	}
	if len(g.Tiers) == 0 {
		return GridTier{Columns: 1, ImageWidth: g.ContentWidth}
	}
	return g.Tiers[len(g.Tiers)-1]
}

// CenterOffset returns the horizontal offset that centers a single
// column of the tier's width; multi-column tiers are left-aligned.
func (g Geometry) CenterOffset(t GridTier) float64 {
	if t.Columns != 1 {
		return 0
	}
	return (g.ContentWidth - t.ImageWidth) / 2
}

// RowHeight estimates a row's height from the cell width and the fixed
// aspect-ratio constant. Image files are deliberately never read for
// their real dimensions; the estimate keeps layout independent of
// decode cost and matches the reports this tool replaces.
func (g Geometry) RowHeight(width float64) float64 {
	return width * g.AspectRatio
}

// Section is one report section: a non-empty bucket and its files in
// final layout order.
type Section struct {
	Bucket classify.Bucket
	Title  string
	Files  []string
}

// Sections produces the report sections in fixed presentation order.
// Empty or absent buckets are skipped silently. Buckets named in
// inverted get their item order reversed before layout.
func Sections(organized map[classify.Bucket][]string, inverted []string) []Section {
	invert := make(map[string]bool, len(inverted))
	for _, b := range inverted {
		invert[b] = true
	}

	var sections []Section
	for _, bucket := range classify.Order {
		files := organized[bucket]
		if len(files) == 0 {
			continue
		}
		ordered := make([]string, len(files))
		copy(ordered, files)
		if invert[string(bucket)] {
			for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
		sections = append(sections, Section{
			Bucket: bucket,
			Title:  bucket.Title(),
			Files:  ordered,
		})
	}
	return sections
}

// PSDGroups is the specialized split of a PSD bucket: full-width
// images, LFP/SBP pairs matched by sort position, and untagged
// leftovers that fall through to the generic grid.
type PSDGroups struct {
	Full  []string
	Pairs [][2]string // [left lfp, right sbp]; empty string marks a blank slot
	Rest  []string
}

// SplitPSD partitions a PSD bucket's files by sub-type tag. Input order
// is preserved within each group, so the pairing lines up LFP and SBP
// plots of matching sort position. A shorter list leaves its slots
// blank; that is not an error.
func SplitPSD(files []string) PSDGroups {
	var g PSDGroups
	var lfp, sbp []string

	for _, f := range files {
		switch classify.ClassifyTag(f) {
		case classify.TagFull:
			g.Full = append(g.Full, f)
		case classify.TagLFP:
			lfp = append(lfp, f)
		case classify.TagSBP:
			sbp = append(sbp, f)
		default:
			g.Rest = append(g.Rest, f)
		}
	}

	n := len(lfp)
	if len(sbp) > n {
		n = len(sbp)
	}
	for i := 0; i < n; i++ {
		var pair [2]string
		if i < len(lfp) {
			pair[0] = lfp[i]
		}
		if i < len(sbp) {
			pair[1] = sbp[i]
		}
		g.Pairs = append(g.Pairs, pair)
	}
	return g
}
