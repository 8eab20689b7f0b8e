package models

// Layout records the anchors discovered in a MHLW prompt grid.
type Layout struct {
	// Time is the reporting month in YYYY-MM form.
	Time string `json:"time"`
	// HeaderRow is the 0-based row holding the age band labels.
	HeaderRow int `json:"header_row"`
	// AgeCols are the 0-based columns holding age band counts.
	AgeCols []int `json:"age_cols"`
	// Ages are the normalized age bands, parallel to AgeCols.
	Ages []string `json:"ages"`
	// SexCol is the 0-based column holding the sex marker.
	SexCol int `json:"sex_col"`
	// CauseCol is the 0-based column holding the cause of death.
	CauseCol int `json:"cause_col"`
	// GeoCol is the 0-based column holding the geography label.
	GeoCol int `json:"geo_col"`
}

// SheetLayout records the anchors discovered in a NPA tabulation sheet.
type SheetLayout struct {
	// TableCode is the sheet type tag such as "A5".
	TableCode string `json:"table_code"`
	// EdgeRow and EdgeCol locate the top-left header cell of the table.
	EdgeRow int `json:"edge_row"`
	EdgeCol int `json:"edge_col"`
	// Time is the reporting month in YYYY-MM form.
	Time string `json:"time"`
	// Sex is total, male or female.
	Sex string `json:"sex"`
	// FirstRow and LastRow bound the data rows (inclusive).
	FirstRow int `json:"first_row"`
	LastRow  int `json:"last_row"`
}
