// Package suicidedata converts Japanese suicide statistics releases into
// canonical long-format tables.
package suicidedata

// Source identifies the publisher layout of a release.
type Source string

const (
	// SourceMHLW is the MHLW vital statistics prompt release: one flat
	// age x sex x cause grid per file.
	SourceMHLW Source = "mhlw"
	// SourceNPA is the regional suicide data release based on NPA figures:
	// ZIP archives of workbooks with one tabulation grid per sheet.
	SourceNPA Source = "npa"
)

// Options configures batch parsing.
type Options struct {
	// SkipErrors logs a failing file and continues with the next one.
	// When false the first failure aborts the batch.
	SkipErrors bool
	// Recursive makes directory inputs include sub-directories.
	Recursive bool
	// Extensions limits directory inputs to these file extensions.
	// If nil, defaults to the extensions of the source.
	Extensions []string
}

// DefaultOptions returns default batch options.
func DefaultOptions() Options {
	return Options{}
}

// FileExtensions returns the extensions accepted for directory inputs.
func (o Options) FileExtensions(src Source) []string {
	if o.Extensions != nil {
		return o.Extensions
	}
	if src == SourceNPA {
		return []string{".zip"}
	}
	return []string{".xls", ".xlsx", ".csv"}
}
