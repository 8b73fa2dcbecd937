package document

import (
	"fmt"
	"path"
	"strings"

	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
)

// FileTag classifies a stored file
type FileTag string

const (
	FileTagGeneral  FileTag = "General"
	FileTagKYC      FileTag = "KYC"
	FileTagContract FileTag = "Contract"
)

// IsValid checks if the tag is a known file tag
func (t FileTag) IsValid() bool {
	switch t {
	case FileTagGeneral, FileTagKYC, FileTagContract:
		return true
	}
	return false
}

// ManagedFile is the metadata of an uploaded file; the bytes live in object storage
type ManagedFile struct {
	shared.BaseAggregateRoot
	Name       string
	Type       string // MIME type
	Size       int64
	ClientID   string
	UploadDate valueobject.Date
	Tag        FileTag
	StorageKey string
}

// NewManagedFile registers an upload. An empty tag means General.
func NewManagedFile(id, name, mimeType string, size int64, clientID string, tag FileTag, uploaded valueobject.Date) (*ManagedFile, error) {
	name = path.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if clientID == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "A client is required")
	}
	if size < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}
	if tag == "" {
		tag = FileTagGeneral
	}
	if !tag.IsValid() {
		return nil, shared.NewDomainError("INVALID_TAG", "Invalid file tag: "+string(tag))
	}
	f := &ManagedFile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
		Name:              name,
		Type:              mimeType,
		Size:              size,
		ClientID:          clientID,
		UploadDate:        uploaded,
		Tag:               tag,
	}
	f.StorageKey = FileStorageKey(clientID, id, name)
	return f, nil
}

// FileStorageKey is where an uploaded client file is kept
func FileStorageKey(clientID, fileID, name string) string {
	return fmt.Sprintf("files/%s/%s/%s", clientID, fileID, name)
}

// ReceiptStorageKey is where an expense receipt image is kept
func ReceiptStorageKey(expenseID, name string) string {
	return fmt.Sprintf("receipts/%s/%s", expenseID, path.Base(name))
}

// Clone returns a copy without pending events
func (f *ManagedFile) Clone() *ManagedFile {
	cp := *f
	cp.ClearDomainEvents()
	return &cp
}
