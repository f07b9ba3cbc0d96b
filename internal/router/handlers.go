package router

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/mmynk/billed/internal/containers"
	"github.com/mmynk/billed/internal/models"
	"github.com/mmynk/billed/internal/receipts"
	"github.com/mmynk/billed/internal/routes"
	"github.com/mmynk/billed/internal/session"
	"github.com/mmynk/billed/internal/views"
)

func (rt *Router) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s, err := rt.sessions.Load(r); err == nil {
		rt.OnNavigate(w, r, home(s.Type))
		return
	}
	render(w, r, http.StatusOK, views.Routes(views.RouteData{Pathname: routes.Login}))
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if rt.accounts == nil {
		render(w, r, http.StatusServiceUnavailable, views.ErrorPage("Service indisponible"))
		return
	}
	if err := r.ParseForm(); err != nil {
		render(w, r, http.StatusBadRequest, views.ErrorPage("Formulaire invalide"))
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	nav := &navigator{}
	login := containers.NewLogin(rt.options(nil, nav), rt.accounts, func(s *session.Session) error {
		return rt.sessions.Save(w, s)
	})

	var err error
	if r.PostFormValue("type") == string(models.RoleAdmin) {
		err = login.HandleSubmitAdmin(r.Context(), email, password)
	} else {
		err = login.HandleSubmitEmployee(r.Context(), email, password)
	}
	if err != nil {
		status := http.StatusUnauthorized
		message := "Identifiants invalides"
		if !errors.Is(err, containers.ErrLoginFailed) {
			rt.logger.Error("Login failed", "email", email, "error", err)
			status = http.StatusBadGateway
			message = errorMessage(err)
		}
		render(w, r, status, views.LoginUI(views.LoginData{Email: email, Error: message}))
		return
	}

	rt.follow(w, r, nav)
}

func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	rt.sessions.Clear(w)
	rt.OnNavigate(w, r, routes.Login)
}

func (rt *Router) handleBills(w http.ResponseWriter, r *http.Request, s *session.Session) {
	bills := containers.NewBills(rt.options(s, &navigator{}))

	list, err := bills.GetBills(r.Context())
	if err != nil {
		rt.logger.Error("Failed to load bills", "email", s.Email, "error", err)
		render(w, r, http.StatusBadGateway, views.Routes(views.RouteData{
			Pathname: routes.Bills,
			Error:    errorMessage(err),
		}))
		return
	}

	if id := r.URL.Query().Get("preview"); id != "" {
		for _, b := range list {
			if b.ID == id {
				bills.HandleClickIconEye(containers.Element{Attrs: map[string]string{
					containers.BillURLAttr: b.FileURL,
				}})
				break
			}
		}
	}

	render(w, r, http.StatusOK, views.Routes(views.RouteData{
		Pathname: routes.Bills,
		Data:     views.BillsData{Bills: list, Preview: bills.Preview},
	}))
}

func (rt *Router) handleClickNewBill(w http.ResponseWriter, r *http.Request, s *session.Session) {
	nav := &navigator{}
	containers.NewBills(rt.options(s, nav)).HandleClickNewBill()
	rt.follow(w, r, nav)
}

func (rt *Router) handleNewBillPage(w http.ResponseWriter, r *http.Request, _ *session.Session) {
	render(w, r, http.StatusOK, views.Routes(views.RouteData{Pathname: routes.NewBill}))
}

// handleNewBill checks the form, uploads the receipt, then submits the
// bill. Nothing reaches the store for an invalid form.
func (rt *Router) handleNewBill(w http.ResponseWriter, r *http.Request, s *session.Session) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		rt.logger.Warn("Rejected new bill form", "error", err)
		render(w, r, http.StatusRequestEntityTooLarge, views.ErrorPage("Formulaire invalide"))
		return
	}

	input, err := fileInput(r)
	if err != nil {
		rt.logger.Error("Failed to read receipt", "error", err)
		render(w, r, http.StatusBadRequest, views.ErrorPage("Justificatif illisible"))
		return
	}
	selected := len(input.Files)

	form := containers.NewBillForm{
		Type:       r.FormValue("expense-type"),
		Name:       r.FormValue("expense-name"),
		Date:       r.FormValue("datepicker"),
		Amount:     r.FormValue("amount"),
		VAT:        r.FormValue("vat"),
		Pct:        r.FormValue("pct"),
		Commentary: r.FormValue("commentary"),
	}
	data := views.NewBillData{Values: form.Values()}

	if err := form.Validate(); err != nil {
		var verr *containers.ValidationError
		if !errors.As(err, &verr) {
			rt.logger.Error("Failed to validate bill", "error", err)
			render(w, r, http.StatusInternalServerError, views.ErrorPage("Formulaire invalide"))
			return
		}
		data.Invalid = verr.Invalid()
		data.FileRejected = selected > 0 && !receipts.Accepted(input.Files[0].Name)
		render(w, r, http.StatusUnprocessableEntity, views.Routes(views.RouteData{Pathname: routes.NewBill, Data: data}))
		return
	}

	nav := &navigator{}
	newBill := containers.NewNewBill(rt.options(s, nav))
	newBill.HandleChangeFile(r.Context(), input)
	data.FileRejected = selected > 0 && len(input.Files) == 0

	if err := newBill.HandleSubmit(r.Context(), form); err != nil {
		rt.logger.Error("Failed to submit bill", "error", err)
	}

	if rt.follow(w, r, nav) {
		return
	}
	render(w, r, http.StatusOK, views.Routes(views.RouteData{Pathname: routes.NewBill, Data: data}))
}

// fileInput reads the receipt field of a parsed multipart form.
func fileInput(r *http.Request) (*containers.FileInput, error) {
	input := &containers.FileInput{}
	if r.MultipartForm == nil {
		return input, nil
	}
	for _, fh := range r.MultipartForm.File["file"] {
		if fh.Filename == "" {
			continue
		}
		file, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		input.Files = append(input.Files, file)
	}
	return input, nil
}

func readFile(fh *multipart.FileHeader) (containers.File, error) {
	f, err := fh.Open()
	if err != nil {
		return containers.File{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return containers.File{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	return containers.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     content,
	}, nil
}

func (rt *Router) handleDashboard(w http.ResponseWriter, r *http.Request, s *session.Session) {
	bills, err := containers.NewDashboard(rt.options(s, &navigator{})).GetBills(r.Context())
	if err != nil {
		rt.logger.Error("Failed to load dashboard", "error", err)
		render(w, r, http.StatusBadGateway, views.Routes(views.RouteData{
			Pathname: routes.Dashboard,
			Error:    errorMessage(err),
		}))
		return
	}
	render(w, r, http.StatusOK, views.Routes(views.RouteData{
		Pathname: routes.Dashboard,
		Data:     views.DashboardData{Bills: bills},
	}))
}

func (rt *Router) handleReview(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if err := r.ParseForm(); err != nil {
		render(w, r, http.StatusBadRequest, views.ErrorPage("Formulaire invalide"))
		return
	}

	nav := &navigator{}
	dashboard := containers.NewDashboard(rt.options(s, nav))
	id := r.PathValue("id")
	comment := r.PostFormValue("commentAdmin")

	var err error
	switch r.PostFormValue("action") {
	case "accept":
		err = dashboard.HandleAcceptSubmit(r.Context(), id, comment)
	case "refuse":
		err = dashboard.HandleRefuseSubmit(r.Context(), id, comment)
	default:
		render(w, r, http.StatusBadRequest, views.ErrorPage("Action inconnue"))
		return
	}
	if err != nil {
		rt.logger.Error("Failed to review bill", "bill_id", id, "error", err)
		render(w, r, http.StatusBadGateway, views.ErrorPage(errorMessage(err)))
		return
	}

	rt.follow(w, r, nav)
}
