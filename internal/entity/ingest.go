package entity

// Rejection describes one record dropped during batch ingestion.
type Rejection struct {
	Index    int    `json:"index" yaml:"index"`
	FileName string `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	Reason   string `json:"reason" yaml:"reason"`
}

// IngestReport summarizes a single ingest run. Rejected records are
// reported, never silently dropped.
type IngestReport struct {
	Inserted int         `json:"inserted" yaml:"inserted"`
	Replaced int         `json:"replaced" yaml:"replaced"`
	Rejected []Rejection `json:"rejected,omitempty" yaml:"rejected,omitempty"`
}

type FileCounter struct {
	ID       string `yaml:"id"`
	FileName string `yaml:"name,omitempty"`
	Counter  int64  `yaml:"counter"`
}
