package router

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billed/internal/auth"
	"github.com/mmynk/billed/internal/models"
	"github.com/mmynk/billed/internal/routes"
	"github.com/mmynk/billed/internal/session"
	"github.com/mmynk/billed/internal/store"
	"github.com/mmynk/billed/internal/store/storetest"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type testRouter struct {
	handler http.Handler
	tokens  *auth.JWTManager
}

func newTestRouter(t *testing.T, mock store.Store) *testRouter {
	t.Helper()
	return newLoggedRouter(t, mock, io.Discard)
}

func newLoggedRouter(t *testing.T, mock store.Store, logs io.Writer) *testRouter {
	t.Helper()
	tokens := auth.NewJWTManager("test-secret", time.Hour)
	cfg := Config{
		Sessions: session.NewManager(tokens, false),
		Logger:   slog.New(slog.NewTextHandler(logs, nil)),
	}
	if mock != nil {
		cfg.Store = func(string) store.Store { return mock }
	}
	return &testRouter{handler: New(cfg).Routes(), tokens: tokens}
}

func (tr *testRouter) cookie(t *testing.T, email string, role models.Role) *http.Cookie {
	t.Helper()
	token, err := tr.tokens.Generate(models.NewUser(email, role, ""))
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func (tr *testRouter) do(r *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		r.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, r)
	return rec
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func byTestID(doc *goquery.Document, id string) *goquery.Selection {
	return doc.Find(`[data-testid="` + id + `"]`)
}

// newBillRequest builds the multipart submission of the new bill form.
func newBillRequest(t *testing.T, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, routes.NewBill.String(), &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func validFields() map[string]string {
	return map[string]string{
		"expense-type": "Transports",
		"expense-name": "Vol Paris Londres",
		"datepicker":   "2023-01-06",
		"amount":       "348",
		"vat":          "70",
		"pct":          "20",
		"commentary":   "séminaire",
	}
}

func TestBillsScreen(t *testing.T) {
	tr := newTestRouter(t, storetest.New())

	rec := tr.do(httptest.NewRequest(http.MethodGet, "/employee/bills", nil), tr.cookie(t, "a@a", models.RoleEmployee))
	require.Equal(t, http.StatusOK, rec.Code)

	doc := document(t, rec)
	assert.True(t, byTestID(doc, "icon-window").HasClass("active-icon"))
	assert.Contains(t, doc.Text(), "Mes notes de frais")
	assert.Contains(t, byTestID(doc, "tbody").Text(), "encore")
	assert.Contains(t, byTestID(doc, "tbody").Text(), "4 Avr. 04")
	assert.Equal(t, 0, byTestID(doc, "modaleFile").Length())
}

func TestBillsPreview(t *testing.T) {
	tr := newTestRouter(t, storetest.New())

	rec := tr.do(httptest.NewRequest(http.MethodGet, "/employee/bills?preview=UIUZtnPQvnbFnB0ozvJh", nil), tr.cookie(t, "a@a", models.RoleEmployee))
	require.Equal(t, http.StatusOK, rec.Code)

	img := byTestID(document(t, rec), "modaleFile").Find("img")
	require.Equal(t, 1, img.Length())
	width, _ := img.Attr("width")
	assert.Equal(t, "400", width)
}

func TestBillsAPIErrors(t *testing.T) {
	for _, status := range []int{404, 500} {
		tr := newTestRouter(t, storetest.Failing(status))

		rec := tr.do(httptest.NewRequest(http.MethodGet, "/employee/bills", nil), tr.cookie(t, "a@a", models.RoleEmployee))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, store.NewError(status).Error(), byTestID(document(t, rec), "error-message").Text())
	}
}

func TestBillsStoreUnavailable(t *testing.T) {
	tr := newTestRouter(t, nil)

	rec := tr.do(httptest.NewRequest(http.MethodGet, "/employee/bills", nil), tr.cookie(t, "a@a", models.RoleEmployee))
	require.Equal(t, http.StatusOK, rec.Code)

	doc := document(t, rec)
	assert.Equal(t, 0, byTestID(doc, "tbody").Find("tr").Length())
	assert.Equal(t, 0, byTestID(doc, "error-message").Length())
}

func TestRoleGating(t *testing.T) {
	tr := newTestRouter(t, storetest.New())

	tests := []struct {
		name   string
		path   string
		cookie *http.Cookie
		want   routes.Path
	}{
		{"anonymous on bills", "/employee/bills", nil, routes.Login},
		{"anonymous on dashboard", "/admin/dashboard", nil, routes.Login},
		{"tampered cookie", "/employee/bills", &http.Cookie{Name: session.CookieName, Value: "garbage"}, routes.Login},
		{"admin on bills", "/employee/bills", tr.cookie(t, "admin@billed.test", models.RoleAdmin), routes.Dashboard},
		{"admin on new bill", "/employee/bill/new", tr.cookie(t, "admin@billed.test", models.RoleAdmin), routes.Dashboard},
		{"employee on dashboard", "/admin/dashboard", tr.cookie(t, "a@a", models.RoleEmployee), routes.Bills},
		{"employee on login", "/", tr.cookie(t, "a@a", models.RoleEmployee), routes.Bills},
		{"admin on login", "/", tr.cookie(t, "admin@billed.test", models.RoleAdmin), routes.Dashboard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tr.do(httptest.NewRequest(http.MethodGet, tt.path, nil), tt.cookie)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.want.String(), rec.Header().Get("Location"))
		})
	}
}

func TestClickNewBill(t *testing.T) {
	tr := newTestRouter(t, storetest.New())
	cookie := tr.cookie(t, "a@a", models.RoleEmployee)

	rec := tr.do(httptest.NewRequest(http.MethodPost, "/employee/bills/new", nil), cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, routes.NewBill.String(), rec.Header().Get("Location"))

	rec = tr.do(httptest.NewRequest(http.MethodGet, rec.Header().Get("Location"), nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, byTestID(document(t, rec), "form-new-bill").Length())
}

func TestSubmitNewBill(t *testing.T) {
	mock := storetest.New()
	tr := newTestRouter(t, mock)
	cookie := tr.cookie(t, "a@a", models.RoleEmployee)

	rec := tr.do(newBillRequest(t, validFields(), "image.png", pngBytes), cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, routes.Bills.String(), rec.Header().Get("Location"))

	created, updated := mock.Calls()
	require.Len(t, created, 1)
	assert.Equal(t, "image.png", created[0].FileName)
	assert.Equal(t, "a@a", created[0].Email)
	assert.Equal(t, pngBytes, created[0].Content)
	require.Len(t, updated, 1)

	rec = tr.do(httptest.NewRequest(http.MethodGet, routes.Bills.String(), nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, byTestID(document(t, rec), "tbody").Text(), "Vol Paris Londres")
}

func TestSubmitInvalidForm(t *testing.T) {
	mock := storetest.New()
	tr := newTestRouter(t, mock)

	rec := tr.do(newBillRequest(t, map[string]string{"datepicker": "2023-01-06", "expense-name": "Taxi"}, "", nil), tr.cookie(t, "a@a", models.RoleEmployee))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	doc := document(t, rec)
	_, invalid := byTestID(doc, "datepicker").Attr("aria-invalid")
	assert.False(t, invalid)
	_, invalid = byTestID(doc, "amount").Attr("aria-invalid")
	assert.True(t, invalid)
	_, invalid = byTestID(doc, "pct").Attr("aria-invalid")
	assert.True(t, invalid)
	value, _ := byTestID(doc, "expense-name").Attr("value")
	assert.Equal(t, "Taxi", value)

	created, updated := mock.Calls()
	assert.Empty(t, created)
	assert.Empty(t, updated)
}

func TestSubmitInvalidFormWithReceipt(t *testing.T) {
	mock := storetest.New()
	tr := newTestRouter(t, mock)
	cookie := tr.cookie(t, "a@a", models.RoleEmployee)

	missingAmount := validFields()
	delete(missingAmount, "amount")
	pctTooHigh := validFields()
	pctTooHigh["pct"] = "150"

	for _, fields := range []map[string]string{missingAmount, pctTooHigh} {
		rec := tr.do(newBillRequest(t, fields, "facture.png", pngBytes), cookie)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, 1, document(t, rec).Find(`[aria-invalid="true"]`).Length())
	}

	created, updated := mock.Calls()
	assert.Empty(t, created)
	assert.Empty(t, updated)
}

func TestSubmitBadExtension(t *testing.T) {
	mock := storetest.New()
	tr := newTestRouter(t, mock)
	fields := validFields()
	delete(fields, "pct")

	rec := tr.do(newBillRequest(t, fields, "image.pdf", []byte("%PDF-1.4")), tr.cookie(t, "a@a", models.RoleEmployee))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	doc := document(t, rec)
	assert.Equal(t, 1, byTestID(doc, "file-error").Length())
	assert.Equal(t, 0, byTestID(doc, "file-name").Length())
	created, _ := mock.Calls()
	assert.Empty(t, created)
}

func TestSubmitWithoutFile(t *testing.T) {
	mock := storetest.New()
	tr := newTestRouter(t, mock)

	rec := tr.do(newBillRequest(t, validFields(), "", nil), tr.cookie(t, "a@a", models.RoleEmployee))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	created, updated := mock.Calls()
	require.Len(t, created, 1)
	assert.Empty(t, created[0].FileName)
	require.Len(t, updated, 1)
}

func TestSubmitStoreFailure(t *testing.T) {
	for _, tt := range []struct {
		status int
		want   string
	}{{404, "Erreur 404"}, {500, "Erreur 500"}} {
		t.Run(tt.want, func(t *testing.T) {
			var logs bytes.Buffer
			mock := storetest.New()
			mock.UpdateFunc = storetest.Failing(tt.status).UpdateFunc
			tr := newLoggedRouter(t, mock, &logs)

			rec := tr.do(newBillRequest(t, validFields(), "image.png", pngBytes), tr.cookie(t, "a@a", models.RoleEmployee))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Header().Get("Location"))
			assert.Equal(t, 1, byTestID(document(t, rec), "form-new-bill").Length())
			assert.Contains(t, logs.String(), tt.want)

			require.Len(t, mock.Deleted, 1)
			assert.Equal(t, storetest.UploadedKey, mock.Deleted[0].Selector)
		})
	}
}

func TestDashboard(t *testing.T) {
	mock := storetest.New()
	tr := newTestRouter(t, mock)
	cookie := tr.cookie(t, "admin@billed.test", models.RoleAdmin)

	rec := tr.do(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, 2, byTestID(doc, "status-bills-refused").Find(".bill-card").Length())

	form := url.Values{"action": {"refuse"}, "commentAdmin": {"pas de justificatif"}}
	r := httptest.NewRequest(http.MethodPost, "/admin/dashboard/47qAXb6fIm2zOKkLzMro", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = tr.do(r, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, routes.Dashboard.String(), rec.Header().Get("Location"))

	_, updated := mock.Calls()
	require.Len(t, updated, 1)
	assert.Equal(t, "47qAXb6fIm2zOKkLzMro", updated[0].Selector)
	assert.JSONEq(t, `{"status":"refused","commentAdmin":"pas de justificatif"}`, updated[0].Data)
}

func TestDashboardUnknownAction(t *testing.T) {
	tr := newTestRouter(t, storetest.New())

	r := httptest.NewRequest(http.MethodPost, "/admin/dashboard/x", strings.NewReader("action=archive"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := tr.do(r, tr.cookie(t, "admin@billed.test", models.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownPath(t *testing.T) {
	tr := newTestRouter(t, storetest.New())

	rec := tr.do(httptest.NewRequest(http.MethodGet, "/employee/unknown", nil), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Page introuvable", byTestID(document(t, rec), "error-message").Text())
}

func TestLoginPageAndLogout(t *testing.T) {
	tr := newTestRouter(t, storetest.New())

	rec := tr.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, byTestID(document(t, rec), "form-employee").Length())

	rec = tr.do(httptest.NewRequest(http.MethodPost, "/logout", nil), tr.cookie(t, "a@a", models.RoleEmployee))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestLoginWithoutAccounts(t *testing.T) {
	tr := newTestRouter(t, storetest.New())

	form := url.Values{"type": {"Employee"}, "email": {"a@a"}, "password": {"employee-password"}}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := tr.do(r, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestCancellation(t *testing.T) {
	mock := storetest.New()
	mock.ListFunc = func(ctx context.Context) ([]models.Bill, error) {
		<-ctx.Done()
		return nil, &store.Error{Status: 499, Err: ctx.Err()}
	}
	tr := newTestRouter(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := httptest.NewRequest(http.MethodGet, "/employee/bills", nil).WithContext(ctx)
	rec := tr.do(r, tr.cookie(t, "a@a", models.RoleEmployee))
	assert.Equal(t, "Erreur 499", byTestID(document(t, rec), "error-message").Text())
}
