package handler

import (
	"context"
	"io"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caportal/portal/internal/core/domain"
)

const adminDocumentsPath = "/admin/documents"

// DocumentHandler serves the document screens of both shells.
type DocumentHandler struct{}

func NewDocumentHandler() *DocumentHandler {
	return &DocumentHandler{}
}

// AdminList handles GET /admin/documents. Clients and tasks are loaded to fill
// the upload form's selectors.
//
// @Summary      Document list (admin)
// @Tags         documents
// @Produce      json
// @Success      200  {object}  Page
// @Failure      502  {object}  Page
// @Router       /admin/documents [get]
func (h *DocumentHandler) AdminList(c echo.Context) error {
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	err = fanOut(ctx, st.Documents.FetchAll, st.Clients.FetchAll, st.Tasks.FetchAll)

	docs, clients, tasks := st.Documents.State(), st.Clients.State(), st.Tasks.State()
	page := documentListPage{
		Status:    mergeStatus(resourceStatus(docs), resourceStatus(clients), resourceStatus(tasks.ResourceState)),
		Documents: docs.Items,
		Clients:   clientOptions(clients.Items),
		Tasks:     taskOptions(tasks.Items),
	}
	return render(c, failureStatus(err), newLayout(c, AdminShell, "Documents"), page)
}

// ClientList handles GET /client/documents.
//
// @Summary      Document list (client)
// @Tags         documents
// @Produce      json
// @Success      200  {object}  Page
// @Failure      502  {object}  Page
// @Router       /client/documents [get]
func (h *DocumentHandler) ClientList(c echo.Context) error {
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	err = settled(st.Documents.FetchAll(ctx))

	docs := st.Documents.State()
	page := documentListPage{Status: resourceStatus(docs), Documents: docs.Items}
	return render(c, failureStatus(err), newLayout(c, ClientShell, "Documents"), page)
}

// Upload handles POST /admin/documents.
//
// @Summary      Upload a document
// @Tags         documents
// @Accept       multipart/form-data
// @Param        name         formData  string  true   "Display name"
// @Param        description  formData  string  false  "Description"
// @Param        clientId     formData  string  true   "Owning client"
// @Param        taskId       formData  string  false  "Related task"
// @Param        file         formData  file    true   "Payload"
// @Success      303          "redirect to /admin/documents"
// @Failure      422          {object}  errorResponse
// @Router       /admin/documents [post]
func (h *DocumentHandler) Upload(c echo.Context) error {
	var req uploadDocumentRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return &domain.ValidationError{Problems: []string{"file is required"}}
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	err = st.Documents.Upload(ctx, domain.DocumentUpload{
		Name:        req.Name,
		Description: req.Description,
		ClientID:    req.ClientID,
		TaskID:      req.TaskID,
		FileName:    fh.Filename,
		File:        f,
	})
	if err := settled(err); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, adminDocumentsPath)
}

// Download handles GET /admin/documents/:id/download and
// GET /client/documents/:id/download. The payload is streamed through as an
// attachment.
//
// @Summary      Download a document
// @Tags         documents
// @Produce      octet-stream
// @Param        id   path  string  true  "Document id"
// @Success      200  {file}    binary
// @Failure      404  {object}  errorResponse
// @Router       /admin/documents/{id}/download [get]
// @Router       /client/documents/{id}/download [get]
func (h *DocumentHandler) Download(c echo.Context) error {
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	return settled(st.Documents.Download(ctx, c.Param("id"), responseSaver{c: c}))
}

// Delete handles DELETE /admin/documents/:id?confirm=true.
//
// @Summary      Delete a document
// @Tags         documents
// @Param        id       path   string  true  "Document id"
// @Param        confirm  query  bool    true  "Must be true"
// @Success      303      "redirect to /admin/documents"
// @Failure      400      {object}  errorResponse
// @Router       /admin/documents/{id} [delete]
func (h *DocumentHandler) Delete(c echo.Context) error {
	if err := confirmed(c); err != nil {
		return err
	}
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	if err := settled(st.Documents.Delete(ctx, c.Param("id"))); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, adminDocumentsPath)
}

// responseSaver is the browser's "save as": it streams the payload back as an
// attachment.
type responseSaver struct {
	c echo.Context
}

func (s responseSaver) Save(_ context.Context, filename, contentType string, body io.Reader) error {
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	s.c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	return s.c.Stream(http.StatusOK, contentType, body)
}

func taskOptions(tasks []*domain.Task) []option {
	out := make([]option, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, option{Value: t.ID, Label: t.Title})
	}
	return out
}
