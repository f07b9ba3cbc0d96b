package service

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xeipuuv/gojsonschema"

	"github.com/mmynk/billed/internal/api"
	"github.com/mmynk/billed/internal/middleware"
	"github.com/mmynk/billed/internal/models"
	"github.com/mmynk/billed/internal/receipts"
	"github.com/mmynk/billed/internal/storage"
)

//go:embed schemas/bill.json
var billSchemaJSON []byte

// BillService implements the Connect BillService: the bills store the
// web containers talk to.
type BillService struct {
	store  storage.Store
	files  receipts.Storage
	schema *gojsonschema.Schema
	ops    *prometheus.CounterVec
}

var _ api.BillServiceHandler = (*BillService)(nil)

// NewBillService creates a BillService with the given storage backends.
// Operation counters are registered on reg.
func NewBillService(store storage.Store, files receipts.Storage, reg prometheus.Registerer) (*BillService, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(billSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile bill schema: %w", err)
	}
	return &BillService{
		store:  store,
		files:  files,
		schema: schema,
		ops: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "billed",
			Name:      "bill_operations_total",
			Help:      "Bill store operations by name and outcome.",
		}, []string{"operation", "outcome"}),
	}, nil
}

func (s *BillService) count(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.ops.WithLabelValues(op, outcome).Inc()
}

// List returns the caller's bills, or every bill for admins.
func (s *BillService) List(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (resp *connect.Response[api.ListBillsResponse], err error) {
	defer func() { s.count("list", err) }()

	email := middleware.GetEmail(ctx)
	if email == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	filter := storage.BillFilter{Email: email}
	if middleware.GetRole(ctx) == models.RoleAdmin {
		filter = storage.BillFilter{}
	}

	bills, err := s.store.ListBills(ctx, filter)
	if err != nil {
		slog.Error("ListBills failed", "email", email, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	for i := range bills {
		s.resolveFileURL(ctx, &bills[i])
	}

	slog.Debug("Bills listed", "email", email, "count", len(bills))
	return connect.NewResponse(&api.ListBillsResponse{Bills: bills}), nil
}

// Create stores the uploaded receipt and opens a pending bill for it.
func (s *BillService) Create(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (resp *connect.Response[api.CreateBillResponse], err error) {
	defer func() { s.count("create", err) }()

	email := middleware.GetEmail(ctx)
	if email == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	owner := req.Msg.Email
	if owner == "" {
		owner = email
	}
	if owner != email && middleware.GetRole(ctx) != models.RoleAdmin {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("cannot create a bill for %s", owner))
	}

	bill := &models.Bill{
		Email:    owner,
		Status:   models.StatusPending,
		Currency: models.DefaultCurrency,
	}

	if name := req.Msg.FileName; name != "" {
		if !receipts.Accepted(name) {
			return nil, connect.NewError(connect.CodeInvalidArgument, receipts.ErrUnsupportedFile)
		}
		if len(req.Msg.Content) == 0 {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("receipt %s is empty", name))
		}

		key := receipts.NewKey(name)
		contentType := receipts.DetectContentType(req.Msg.Content, req.Msg.ContentType)
		if err := s.files.Put(ctx, key, contentType, bytes.NewReader(req.Msg.Content), int64(len(req.Msg.Content))); err != nil {
			slog.Error("Receipt upload failed", "email", owner, "file_name", name, "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		bill.FileName = name
		bill.FileKey = key
	}

	if err := s.store.CreateBill(ctx, bill); err != nil {
		slog.Error("CreateBill failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.resolveFileURL(ctx, bill)

	slog.Info("Bill created", "bill_id", bill.ID, "email", owner, "file_name", bill.FileName)
	return connect.NewResponse(&api.CreateBillResponse{FileURL: bill.FileURL, Key: bill.ID}), nil
}

// billPatch is the decoded update payload. Nil fields are left untouched.
type billPatch struct {
	Type         *string        `json:"type"`
	Name         *string        `json:"name"`
	Date         *string        `json:"date"`
	Amount       *float64       `json:"amount"`
	VAT          *string        `json:"vat"`
	Currency     *string        `json:"currency"`
	Pct          *int           `json:"pct"`
	Commentary   *string        `json:"commentary"`
	FileName     *string        `json:"fileName"`
	Status       *models.Status `json:"status"`
	CommentAdmin *string        `json:"commentAdmin"`
}

// reviewOnly reports whether the patch touches fields reserved to admins.
func (p *billPatch) reviewOnly() bool {
	return (p.Status != nil && *p.Status != models.StatusPending) ||
		(p.CommentAdmin != nil && *p.CommentAdmin != "")
}

func (p *billPatch) apply(b *models.Bill) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&b.Type, p.Type)
	set(&b.Name, p.Name)
	set(&b.Date, p.Date)
	set(&b.VAT, p.VAT)
	if p.Currency != nil && *p.Currency != "" {
		b.Currency = *p.Currency
	}
	set(&b.Commentary, p.Commentary)
	set(&b.FileName, p.FileName)
	set(&b.CommentAdmin, p.CommentAdmin)
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Pct != nil {
		b.Pct = *p.Pct
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
}

// Update merges the JSON encoded bill in Data into the bill named by Selector.
// Fields the payload carries but the store derives (id, email, fileUrl) are ignored.
func (s *BillService) Update(ctx context.Context, req *connect.Request[api.UpdateBillRequest]) (resp *connect.Response[models.Bill], err error) {
	defer func() { s.count("update", err) }()

	email := middleware.GetEmail(ctx)
	if email == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	if req.Msg.Selector == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("selector required"))
	}

	if err := s.validate(req.Msg.Data); err != nil {
		slog.Warn("Update payload rejected", "bill_id", req.Msg.Selector, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	var patch billPatch
	if err := json.Unmarshal([]byte(req.Msg.Data), &patch); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	bill, err := s.store.GetBill(ctx, req.Msg.Selector)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err != nil {
		slog.Error("Update failed to load bill", "bill_id", req.Msg.Selector, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if middleware.GetRole(ctx) != models.RoleAdmin {
		if bill.Email != email {
			return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("bill %s belongs to another user", bill.ID))
		}
		if bill.Status != models.StatusPending {
			return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("bill %s is already %s", bill.ID, bill.Status))
		}
		if patch.reviewOnly() {
			return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("only admins can review bills"))
		}
	}

	patch.apply(bill)
	if err := s.store.UpdateBill(ctx, bill); err != nil {
		slog.Error("UpdateBill failed", "bill_id", bill.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.resolveFileURL(ctx, bill)

	slog.Info("Bill updated", "bill_id", bill.ID, "status", bill.Status, "by", email)
	return connect.NewResponse(bill), nil
}

// Delete discards a pending bill and its receipt. Employees may only
// delete their own bills.
func (s *BillService) Delete(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (resp *connect.Response[api.DeleteBillResponse], err error) {
	defer func() { s.count("delete", err) }()

	email := middleware.GetEmail(ctx)
	if email == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	if req.Msg.Selector == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("selector required"))
	}

	bill, err := s.store.GetBill(ctx, req.Msg.Selector)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err != nil {
		slog.Error("Delete failed to load bill", "bill_id", req.Msg.Selector, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if bill.Email != email && middleware.GetRole(ctx) != models.RoleAdmin {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("bill %s belongs to another user", bill.ID))
	}
	if bill.Status != models.StatusPending {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("bill %s is already %s", bill.ID, bill.Status))
	}

	if err := s.store.DeleteBill(ctx, bill.ID); err != nil {
		slog.Error("DeleteBill failed", "bill_id", bill.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if bill.FileKey != "" {
		if err := s.files.Delete(ctx, bill.FileKey); err != nil {
			slog.Warn("Receipt left behind", "bill_id", bill.ID, "key", bill.FileKey, "error", err)
		}
	}

	slog.Info("Bill deleted", "bill_id", bill.ID, "by", email)
	return connect.NewResponse(&api.DeleteBillResponse{}), nil
}

// validate checks data against the bill schema.
func (s *BillService) validate(data string) error {
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(data))
	if err != nil {
		return fmt.Errorf("invalid bill payload: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid bill payload: %s", strings.Join(msgs, "; "))
}

// resolveFileURL fills FileURL from the receipt key. A failure only costs
// this bill its preview.
func (s *BillService) resolveFileURL(ctx context.Context, bill *models.Bill) {
	if bill.FileKey == "" {
		return
	}
	url, err := s.files.URL(ctx, bill.FileKey)
	if err != nil {
		slog.Warn("Receipt URL unavailable", "bill_id", bill.ID, "error", err)
		return
	}
	bill.FileURL = url
}
