package share

// IDLength is the exact length of every share id.
const IDLength = 16

// Record is one share grant: an id confined to a key prefix. An empty Path
// exposes the store root.
type Record struct {
	ID   string `json:"shareId"`
	Path string `json:"path"`
}

// storedRecord is the value persisted under the share id.
type storedRecord struct {
	Path string `json:"path"`
}
