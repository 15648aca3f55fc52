package ports

import (
	"context"
	"io"
)

// FileSaver is the "save as" step of a document download.
type FileSaver interface {
	Save(ctx context.Context, filename, contentType string, body io.Reader) error
}
