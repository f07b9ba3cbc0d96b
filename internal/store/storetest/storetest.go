// Package storetest provides an in-memory store.Store for container and
// router tests, preloaded with the four reference bills.
package storetest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mmynk/billed/internal/api"
	"github.com/mmynk/billed/internal/models"
	"github.com/mmynk/billed/internal/store"
)

// UploadedFileURL is what Create answers by default.
const UploadedFileURL = "https://localhost:3456/images/test.jpg"

// UploadedKey is the bill key Create answers by default.
const UploadedKey = "1234"

// Bills returns a fresh copy of the reference bills, in store order.
func Bills() []models.Bill {
	return []models.Bill{
		{
			ID:           "47qAXb6fIm2zOKkLzMro",
			VAT:          "80",
			FileURL:      "https://test.storage.tld/v0/b/billable-677b6.a…f-1.jpg?alt=media&token=c1640e12-a24b-4b11-ae52-529112e9602a",
			Status:       models.StatusPending,
			Type:         "Hôtel et logement",
			Commentary:   "séminaire billed",
			Name:         "encore",
			FileName:     "preview-facture-free-201801-pdf-1.jpg",
			Date:         "2004-04-04",
			Amount:       400,
			CommentAdmin: "ok",
			Email:        "a@a",
			Pct:          20,
		},
		{
			ID:           "BeKy5Mo4jkmdfPGYpTxZ",
			VAT:          "",
			Amount:       100,
			Name:         "test1",
			FileName:     "1592770761.jpeg",
			Commentary:   "plop",
			Pct:          20,
			Type:         "Transports",
			Email:        "a@a",
			FileURL:      "https://test.storage.tld/v0/b/billable-677b6.a…61.jpeg?alt=media&token=7685cd61-c112-42bc-9929-8a799bb82d8b",
			Date:         "2001-01-01",
			Status:       models.StatusRefused,
			CommentAdmin: "en fait non",
		},
		{
			ID:           "UIUZtnPQvnbFnB0ozvJh",
			Name:         "test3",
			Email:        "a@a",
			Type:         "Services en ligne",
			VAT:          "60",
			Pct:          20,
			CommentAdmin: "bon bah d'accord",
			Amount:       300,
			Status:       models.StatusAccepted,
			Date:         "2003-03-03",
			Commentary:   "",
			FileName:     "facture-client-php-exportee-dans-document-pdf-enregistre-sur-disque-dur.png",
			FileURL:      "https://test.storage.tld/v0/b/billable-677b6.a…dur.png?alt=media&token=571d34cb-9c8f-430a-af52-66221cae1da3",
		},
		{
			ID:           "qcCK3SzECmaZAGRrHjaC",
			Status:       models.StatusRefused,
			Pct:          20,
			Amount:       200,
			Email:        "a@a",
			Name:         "test2",
			VAT:          "40",
			FileName:     "preview-facture-free-201801-pdf-1.jpg",
			Date:         "2002-02-02",
			CommentAdmin: "pas la bonne facture",
			Commentary:   "test2",
			Type:         "Restaurants et bars",
			FileURL:      "https://test.storage.tld/v0/b/billable-677b6.a…f-1.jpg?alt=media&token=4df6ed2c-12c8-42a2-b013-346c1346f732",
		},
	}
}

// Store is a store.Store whose operations can be overridden per test.
// Unset funcs fall back to the reference behavior.
type Store struct {
	mu sync.Mutex

	ListFunc   func(ctx context.Context) ([]models.Bill, error)
	CreateFunc func(ctx context.Context, req *api.CreateBillRequest) (*api.CreateBillResponse, error)
	UpdateFunc func(ctx context.Context, req *api.UpdateBillRequest) (*models.Bill, error)
	DeleteFunc func(ctx context.Context, req *api.DeleteBillRequest) error

	Created []api.CreateBillRequest
	Updated []api.UpdateBillRequest
	Deleted []api.DeleteBillRequest

	saved []models.Bill
}

var (
	_ store.Store         = (*Store)(nil)
	_ store.BillsResource = (*Store)(nil)
)

// New returns a Store serving the reference bills.
func New() *Store {
	return &Store{}
}

// Failing returns a Store whose every call fails with status.
func Failing(status int) *Store {
	err := store.NewError(status)
	return &Store{
		ListFunc: func(context.Context) ([]models.Bill, error) { return nil, err },
		CreateFunc: func(context.Context, *api.CreateBillRequest) (*api.CreateBillResponse, error) {
			return nil, err
		},
		UpdateFunc: func(context.Context, *api.UpdateBillRequest) (*models.Bill, error) { return nil, err },
		DeleteFunc: func(context.Context, *api.DeleteBillRequest) error { return err },
	}
}

// Bills implements store.Store.
func (s *Store) Bills() store.BillsResource {
	return s
}

// List implements store.BillsResource. By default it answers the reference
// bills followed by the bills submitted through Update.
func (s *Store) List(ctx context.Context) ([]models.Bill, error) {
	if s.ListFunc != nil {
		return s.ListFunc(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(Bills(), s.saved...), nil
}

// Create implements store.BillsResource.
func (s *Store) Create(ctx context.Context, req *api.CreateBillRequest) (*api.CreateBillResponse, error) {
	s.mu.Lock()
	s.Created = append(s.Created, *req)
	s.mu.Unlock()

	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, req)
	}
	return &api.CreateBillResponse{FileURL: UploadedFileURL, Key: UploadedKey}, nil
}

// Update implements store.BillsResource.
func (s *Store) Update(ctx context.Context, req *api.UpdateBillRequest) (*models.Bill, error) {
	s.mu.Lock()
	s.Updated = append(s.Updated, *req)
	s.mu.Unlock()

	if s.UpdateFunc != nil {
		return s.UpdateFunc(ctx, req)
	}

	var submitted models.Bill
	if err := json.Unmarshal([]byte(req.Data), &submitted); err == nil {
		submitted.ID = req.Selector
		s.mu.Lock()
		s.saved = append(s.saved, submitted)
		s.mu.Unlock()
	}

	bill := Bills()[0]
	return &bill, nil
}

// Delete implements store.BillsResource.
func (s *Store) Delete(ctx context.Context, req *api.DeleteBillRequest) error {
	s.mu.Lock()
	s.Deleted = append(s.Deleted, *req)
	s.mu.Unlock()

	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, req)
	}
	return nil
}

// Calls returns copies of the recorded Create and Update requests.
func (s *Store) Calls() ([]api.CreateBillRequest, []api.UpdateBillRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.CreateBillRequest(nil), s.Created...), append([]api.UpdateBillRequest(nil), s.Updated...)
}
