package output

// JSON envelopes for command results. Commands fill these and hand them
// to Renderer.JSON; text and markdown modes render the same data
// through the formatting helpers instead.

// DatasetInfo is one BEA dataset in `bea datasets` output.
type DatasetInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DatasetsOutput is the `bea datasets` envelope.
type DatasetsOutput struct {
	Datasets []DatasetInfo `json:"datasets"`
	Count    int           `json:"count"`
}

// TableInfo is one regional table in `bea tables` output.
type TableInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TablesOutput is the `bea tables` envelope.
type TablesOutput struct {
	Dataset string      `json:"dataset"`
	Tables  []TableInfo `json:"tables"`
	Count   int         `json:"count"`
}

// LineCodeInfo is one line code in `bea linecodes` output.
type LineCodeInfo struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// LineCodesOutput is the `bea linecodes` envelope.
type LineCodesOutput struct {
	Table     string         `json:"table"`
	LineCodes []LineCodeInfo `json:"line_codes"`
	Count     int            `json:"count"`
}

// FetchOutput reports one completed fetch (`bea fetch`, `ratings`).
type FetchOutput struct {
	RunID     string   `json:"run_id"`
	Kind      string   `json:"kind"`
	Rows      int      `json:"rows"`
	OutPath   string   `json:"out_path"`
	Statistic string   `json:"statistic,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	Notes     []string `json:"notes,omitempty"`
	Misses    []string `json:"misses,omitempty"`
}

// RunInfo is one journal entry in `runs` output.
type RunInfo struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Params      string `json:"params,omitempty"`
	Status      string `json:"status"`
	Rows        int64  `json:"rows"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	Error       string `json:"error,omitempty"`
}

// RunsOutput is the `runs list` envelope.
type RunsOutput struct {
	Runs  []RunInfo `json:"runs"`
	Count int       `json:"count"`
}

// FigureOutput reports a rendered figure file (`heatmap`, `dist`).
type FigureOutput struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	Panels int    `json:"panels,omitempty"`
	Facets int    `json:"facets,omitempty"`
}
