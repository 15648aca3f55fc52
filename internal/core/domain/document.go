package domain

import (
	"io"
	"time"
)

// Document is the metadata of an uploaded file. The payload itself is only
// ever streamed on download.
type Document struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ClientID    string    `json:"clientId,omitempty"`
	Client      *Ref      `json:"client,omitempty"`
	TaskID      string    `json:"taskId,omitempty"`
	Task        *Ref      `json:"task,omitempty"`
	FileType    string    `json:"fileType,omitempty"`
	UploadedBy  *Ref      `json:"uploadedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (d *Document) Identity() string { return d.ID }

// OwnerID returns the owning client's id.
func (d *Document) OwnerID() string {
	if d.ClientID != "" {
		return d.ClientID
	}
	if d.Client != nil {
		return d.Client.ID
	}
	return ""
}

// DocumentUpload is the multipart upload form. TaskID is optional.
type DocumentUpload struct {
	Name        string
	Description string
	ClientID    string
	TaskID      string
	FileName    string
	File        io.Reader
}

// Download is a binary response as returned by the backend. The caller owns
// Body and must close it.
type Download struct {
	ContentDisposition string
	ContentType        string
	Body               io.ReadCloser
}
