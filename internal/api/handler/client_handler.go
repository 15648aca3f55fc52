package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caportal/portal/internal/core/domain"
)

const (
	clientsPath = "/admin/clients"
	newID       = "new"
)

// ClientHandler serves the admin client screens.
type ClientHandler struct{}

func NewClientHandler() *ClientHandler {
	return &ClientHandler{}
}

// List handles GET /admin/clients.
//
// @Summary      Client list
// @Tags         clients
// @Produce      json
// @Success      200  {object}  Page
// @Failure      502  {object}  Page
// @Router       /admin/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	err = settled(st.Clients.FetchAll(ctx))

	s := st.Clients.State()
	page := clientListPage{Status: resourceStatus(s), Clients: s.Items}
	return render(c, failureStatus(err), newLayout(c, AdminShell, "Clients"), page)
}

// Detail handles GET /admin/clients/:id. The id "new" opens an empty
// creation form.
//
// @Summary      Client form
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client id or \"new\""
// @Success      200  {object}  Page
// @Failure      404  {object}  Page
// @Router       /admin/clients/{id} [get]
func (h *ClientHandler) Detail(c echo.Context) error {
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if id == newID {
		st.Clients.ClearSelected()
		page := clientFormPage{Status: resourceStatus(st.Clients.State()), IsNew: true}
		return render(c, http.StatusOK, newLayout(c, AdminShell, "Add Client"), page)
	}

	err = settled(st.Clients.FetchByID(ctx, id))
	s := st.Clients.State()
	page := clientFormPage{Status: resourceStatus(s), ID: id}
	if cl := s.Selected; cl != nil && cl.ID == id {
		page.Form = clientRequest{Name: cl.Name, Email: cl.Email, Phone: cl.Phone}
	}
	return render(c, failureStatus(err), newLayout(c, AdminShell, "Client Details"), page)
}

// Save handles POST /admin/clients/:id: creates on "new", updates otherwise.
//
// @Summary      Create or update a client
// @Tags         clients
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id    path      string         true  "Client id or \"new\""
// @Param        body  body      clientRequest  true  "Client fields"
// @Success      303   "redirect to /admin/clients"
// @Failure      400   {object}  Page
// @Failure      422   {object}  errorResponse
// @Router       /admin/clients/{id} [post]
func (h *ClientHandler) Save(c echo.Context) error {
	var req clientRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	id := c.Param("id")
	isNew := id == newID
	if isNew && req.Password == "" {
		return &domain.ValidationError{Problems: []string{"password is required"}}
	}

	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	draft := domain.ClientDraft{Name: req.Name, Email: req.Email, Phone: req.Phone, Password: req.Password}
	if isNew {
		err = st.Clients.Create(ctx, draft)
	} else {
		err = st.Clients.Update(ctx, id, draft)
	}
	if err = settled(err); err != nil {
		req.Password = ""
		title := "Client Details"
		if isNew {
			title = "Add Client"
		}
		page := clientFormPage{Status: resourceStatus(st.Clients.State()), IsNew: isNew, Form: req}
		if !isNew {
			page.ID = id
		}
		return render(c, failureStatus(err), newLayout(c, AdminShell, title), page)
	}
	return c.Redirect(http.StatusSeeOther, clientsPath)
}

// Delete handles DELETE /admin/clients/:id?confirm=true.
//
// @Summary      Delete a client
// @Tags         clients
// @Param        id       path   string  true  "Client id"
// @Param        confirm  query  bool    true  "Must be true"
// @Success      303      "redirect to /admin/clients"
// @Failure      400      {object}  errorResponse
// @Router       /admin/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := confirmed(c); err != nil {
		return err
	}
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	if err := settled(st.Clients.Delete(ctx, c.Param("id"))); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, clientsPath)
}
