// Package classify assigns plot image filenames to a fixed bucket
// taxonomy. Classification is purely filename-substring based; image
// contents are never inspected.
package classify

import (
	"path/filepath"
	"strings"
)

// Bucket is a named category of classified plot images.
// The set is fixed per ruleset version and known at compile time.
type Bucket string

const (
	BucketPSDSignal  Bucket = "psd_signal"
	BucketPSDNoise   Bucket = "psd_noise"
	BucketGain       Bucket = "gain"
	BucketTHDN       Bucket = "thdn"
	BucketElectrodes Bucket = "electrodes"
	BucketNitara     Bucket = "nitara"
	BucketYield      Bucket = "yield"
	BucketMisc       Bucket = "misc" // catch-all, guarantees totality
)

// Order is the fixed presentation order of buckets in reports.
var Order = []Bucket{
	BucketPSDSignal,
	BucketPSDNoise,
	BucketGain,
	BucketTHDN,
	BucketElectrodes,
	BucketNitara,
	BucketYield,
	BucketMisc,
}

// Title returns the section heading used for this bucket in reports.
func (b Bucket) Title() string {
	switch b {
	case BucketPSDSignal:
		return "PSD Signal"
	case BucketPSDNoise:
		return "PSD Noise"
	case BucketGain:
		return "Gain"
	case BucketTHDN:
		return "THD+N"
	case BucketElectrodes:
		return "Impedance - Electrodes"
	case BucketNitara:
		return "Impedance - Nitara"
	case BucketYield:
		return "Yield Response"
	case BucketMisc:
		return "Other Plots"
	}
	return string(b)
}

// IsPSD reports whether the bucket gets the specialized PSD layout
// (full-width rows plus LFP/SBP pairing) instead of the generic grid.
func (b Bucket) IsPSD() bool {
	return b == BucketPSDSignal || b == BucketPSDNoise
}

// Tag is a PSD sub-type marker carried in the filename.
type Tag string

const (
	TagFull Tag = "full"
	TagLFP  Tag = "lfp"
	TagSBP  Tag = "sbp"
	TagNone Tag = ""
)

// rule is one ordered classification predicate. A filename matches when
// it contains every substring in all and, if any is non-empty, at least
// one substring in any.
type rule struct {
	bucket Bucket
	all    []string
	any    []string
}

// rules is the ordered ruleset; first match wins. The order matters:
// "psd"+"noise" must be tested before the bare "psd" rule, and the
// hyphenated impedance markers act as fallbacks for files that carry
// the device-role marker without an rms/no-stim qualifier.
var rules = []rule{
	{bucket: BucketPSDNoise, all: []string{"psd", "noise"}},
	{bucket: BucketPSDSignal, all: []string{"psd"}},
	{bucket: BucketGain, all: []string{"gain"}},
	{bucket: BucketTHDN, all: []string{"thdn"}},
	{bucket: BucketElectrodes, all: []string{"electrode"}, any: []string{"rms", "no-stim"}},
	{bucket: BucketElectrodes, all: []string{"impedance-electrodes"}},
	{bucket: BucketNitara, all: []string{"nitara"}, any: []string{"rms", "no-stim"}},
	{bucket: BucketNitara, all: []string{"impedance-nitara"}},
	{bucket: BucketYield, all: []string{"yield-response"}},
}

func (r rule) matches(name string) bool {
	for _, s := range r.all {
		if !strings.Contains(name, s) {
			return false
		}
	}
	if len(r.any) == 0 {
		return true
	}
	for _, s := range r.any {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

// Classify assigns a filename to exactly one bucket. Matching is
// case-insensitive on the base name; unmatched files land in misc.
func Classify(filename string) Bucket {
	name := strings.ToLower(filepath.Base(filename))
	for _, r := range rules {
		if r.matches(name) {
			return r.bucket
		}
	}
	return BucketMisc
}

// ClassifyTag extracts the PSD sub-type marker from a filename.
// "full" beats "lfp"/"sbp" when both appear.
func ClassifyTag(filename string) Tag {
	name := strings.ToLower(filepath.Base(filename))
	switch {
	case strings.Contains(name, "full"):
		return TagFull
	case strings.Contains(name, "lfp"):
		return TagLFP
	case strings.Contains(name, "sbp"):
		return TagSBP
	}
	return TagNone
}

// defaultImageExts is the image extension set shared by all ruleset
// versions; .svg is admitted only when configured.
var defaultImageExts = []string{".png", ".jpg", ".jpeg"}

// DefaultImageExtensions returns a copy of the default image extension set.
func DefaultImageExtensions() []string {
	out := make([]string, len(defaultImageExts))
	copy(out, defaultImageExts)
	return out
}

// IsImage reports whether the filename has one of the given image
// extensions (case-insensitive).
func IsImage(filename string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// IsCSV reports whether the filename is a CSV file. CSVs bypass image
// classification and feed the summary path instead.
func IsCSV(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".csv")
}
