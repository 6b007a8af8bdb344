package source

import "fmt"

// Issue is a data-entry problem found in a document. Issues are warnings:
// the engine still computes over the document, but the affected figures
// may be off.
type Issue struct {
	TenantID string
	Field    string
	Message  string
}

func (i Issue) String() string {
	if i.TenantID == "" {
		return fmt.Sprintf("%s: %s", i.Field, i.Message)
	}
	return fmt.Sprintf("tenant %s: %s: %s", i.TenantID, i.Field, i.Message)
}

// Backup is a previous version of a data file kept next to it.
type Backup struct {
	Path    string
	Name    string
	Size    int64
	SavedAt string
}
