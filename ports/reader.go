package ports

import (
	"sheetlens/domain/dataset"
)

// DatasetReader is the external file-parsing collaborator: it turns a
// spreadsheet or CSV file into an in-memory Dataset. The analysis engine
// itself never touches files.
type DatasetReader interface {
	Read(path string) (*dataset.Dataset, error)
}
