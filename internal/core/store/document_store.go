package store

import (
	"context"
	"fmt"
	"mime"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/core/ports"
)

// DocumentState is the documents slice.
type DocumentState = ResourceState[*domain.Document]

// DocumentStore manages document metadata. Payloads are streamed straight
// from the backend into a FileSaver and never kept in the slice.
type DocumentStore struct {
	*Store[DocumentState, *domain.Document]
	api ports.DocumentAPI
}

func NewDocumentStore(api ports.DocumentAPI, log zerolog.Logger, rec Recorder) *DocumentStore {
	return &DocumentStore{
		Store: New[DocumentState, *domain.Document]("documents", NewResourceState[*domain.Document](), ReduceResource[*domain.Document], log, rec),
		api:   api,
	}
}

func (s *DocumentStore) FetchAll(ctx context.Context) error {
	return fetchAll(ctx, s.Store, s.api.List)
}

func (s *DocumentStore) FetchByID(ctx context.Context, id string) error {
	return fetchByID(ctx, s.Store, id, s.api.Get)
}

// Upload sends the file and appends the created metadata.
func (s *DocumentStore) Upload(ctx context.Context, up domain.DocumentUpload) error {
	return create(ctx, s.Store, func(ctx context.Context) (*domain.Document, error) {
		return s.api.Upload(ctx, up)
	})
}

func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.Store, id, s.api.Delete)
}

// Download fetches the payload of id and hands it to saver under the name the
// backend suggested. The item list is left as is.
func (s *DocumentStore) Download(ctx context.Context, id string, saver ports.FileSaver) error {
	return s.run(ctx, OpDownload, func(ctx context.Context) (Action[*domain.Document], error) {
		dl, err := s.api.Download(ctx, id)
		if err != nil {
			return Action[*domain.Document]{}, err
		}
		defer dl.Body.Close()

		name := DownloadFilename(dl.ContentDisposition, id)
		if err := saver.Save(ctx, name, dl.ContentType, dl.Body); err != nil {
			return Action[*domain.Document]{}, fmt.Errorf("save %s: %w", name, err)
		}
		return Action[*domain.Document]{ID: id}, nil
	})
}

func (s *DocumentStore) ClearSelected() {
	s.apply(Action[*domain.Document]{Op: OpClearSelected, Phase: Fulfilled}, false)
}

var quotedFilename = regexp.MustCompile(`(?i)filename="(.+)"`)

// DownloadFilename picks the save-as name from a Content-Disposition header,
// falling back to document-<id>.
func DownloadFilename(contentDisposition, id string) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil && params["filename"] != "" {
			return params["filename"]
		}
		// Some backends send unescaped quotes that ParseMediaType rejects.
		if m := quotedFilename.FindStringSubmatch(contentDisposition); m != nil {
			return m[1]
		}
	}
	return "document-" + id
}

// Clear empties the slice and discards requests still in flight.
func (s *DocumentStore) Clear() {
	s.apply(Action[*domain.Document]{Op: OpClear, Phase: Fulfilled}, true)
}
