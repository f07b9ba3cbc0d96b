package containers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmynk/billed/internal/api"
	"github.com/mmynk/billed/internal/models"
	"github.com/mmynk/billed/internal/receipts"
	"github.com/mmynk/billed/internal/routes"
)

// File is a file picked in a file input.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     []byte
}

// FileInput is the state of the receipt input.
type FileInput struct {
	Files []File
}

// NewBill drives the new bill form.
type NewBill struct {
	opts Options

	// pending upload
	fileURL  string
	fileName string
	billID   string
}

// NewNewBill creates the new bill container.
func NewNewBill(opts Options) *NewBill {
	return &NewBill{opts: opts}
}

// FileName is the name of the receipt uploaded for this bill, if any.
func (n *NewBill) FileName() string {
	return n.fileName
}

// HandleChangeFile uploads the first selected file. Files that are not
// jpg, jpeg or png are dropped from the input and never uploaded. Upload
// failures are logged and leave no pending upload.
func (n *NewBill) HandleChangeFile(ctx context.Context, input *FileInput) {
	if input == nil || len(input.Files) == 0 {
		return
	}

	file := input.Files[0]
	if !receipts.Accepted(file.Name) {
		n.opts.logger().Info("Rejected receipt", "file_name", file.Name)
		input.Files = nil
		return
	}

	if n.opts.Store == nil {
		return
	}

	resp, err := n.opts.Store.Bills().Create(ctx, &api.CreateBillRequest{
		Email:       n.opts.email(),
		FileName:    file.Name,
		ContentType: file.ContentType,
		Content:     file.Content,
	})
	if err != nil {
		n.opts.logger().Error("Failed to upload receipt", "file_name", file.Name, "error", err)
		return
	}

	n.fileURL = resp.FileURL
	n.fileName = file.Name
	n.billID = resp.Key
}

// HandleSubmit validates the form and submits the bill. It returns a
// *ValidationError when the form is invalid. Store failures are logged,
// not returned, and keep the user on the form; the bill opened for the
// pending upload is discarded.
func (n *NewBill) HandleSubmit(ctx context.Context, form NewBillForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	bill := n.billFrom(form)

	if n.opts.Store == nil {
		n.opts.navigate(routes.Bills)
		return nil
	}

	err := n.updateBill(ctx, bill)
	billID := n.billID
	n.reset()
	if err != nil {
		n.opts.logger().Error("Failed to submit bill", "bill_id", billID, "error", err)
		n.discard(ctx, billID)
		return nil
	}

	n.opts.navigate(routes.Bills)
	return nil
}

func (n *NewBill) billFrom(form NewBillForm) models.Bill {
	amount, _ := strconv.ParseFloat(strings.TrimSpace(form.Amount), 64)
	pct, _ := strconv.ParseFloat(strings.TrimSpace(form.Pct), 64)

	return models.Bill{
		Email:      n.opts.email(),
		Type:       form.Type,
		Name:       form.Name,
		Amount:     amount,
		Date:       strings.TrimSpace(form.Date),
		VAT:        strings.TrimSpace(form.VAT),
		Pct:        int(pct),
		Commentary: form.Commentary,
		FileURL:    n.fileURL,
		FileName:   n.fileName,
		Status:     models.StatusPending,
	}
}

// updateBill writes bill under the pending upload key. Without an upload
// a bill with no receipt is opened first to get a key.
func (n *NewBill) updateBill(ctx context.Context, bill models.Bill) error {
	if n.billID == "" {
		resp, err := n.opts.Store.Bills().Create(ctx, &api.CreateBillRequest{Email: bill.Email})
		if err != nil {
			return fmt.Errorf("failed to open bill: %w", err)
		}
		n.billID = resp.Key
	}

	data, err := json.Marshal(bill)
	if err != nil {
		return fmt.Errorf("failed to encode bill: %w", err)
	}

	if _, err := n.opts.Store.Bills().Update(ctx, &api.UpdateBillRequest{
		Data:     string(data),
		Selector: n.billID,
	}); err != nil {
		return fmt.Errorf("failed to update bill %s: %w", n.billID, err)
	}
	return nil
}

// discard deletes a bill left unfinished by a failed submission.
func (n *NewBill) discard(ctx context.Context, billID string) {
	if billID == "" {
		return
	}
	if err := n.opts.Store.Bills().Delete(ctx, &api.DeleteBillRequest{Selector: billID}); err != nil {
		n.opts.logger().Warn("Failed to discard bill", "bill_id", billID, "error", err)
	}
}

func (n *NewBill) reset() {
	n.fileURL, n.fileName, n.billID = "", "", ""
}
