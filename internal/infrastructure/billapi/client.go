// Package billapi is the REST client of the billing backend.
package billapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/unquiedeveloper/sg-store2/internal/domain/entity"
	"github.com/unquiedeveloper/sg-store2/internal/domain/repository"
	"github.com/unquiedeveloper/sg-store2/pkg/apperror"
)

const (
	listPath   = "/api/v1/bill/getall"
	deletePath = "/api/v1/bill/delete/"
	createPath = "/api/v1/bill/create"
)

// Operation names used in error messages
const (
	OpList   = "fetch bills"
	OpDelete = "delete bill"
	OpCreate = "create bill"
)

type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a backend client. A zero timeout leaves requests
// bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

var _ repository.BillRepository = (*Client)(nil)

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.client.Do(req)
}

type listResponse struct {
	Bills json.RawMessage `json:"bills"`
}

// List fetches every bill. A body without a "bills" array is malformed.
func (c *Client) List(ctx context.Context) ([]entity.Bill, error) {
	resp, err := c.do(ctx, http.MethodGet, listPath, nil)
	if err != nil {
		return nil, apperror.NewTransportError(OpList, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperror.NewStatusError(OpList, resp.StatusCode)
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperror.NewMalformedError(OpList, err)
	}
	raw := bytes.TrimSpace(payload.Bills)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, apperror.NewMalformedError(OpList, errors.New(`"bills" is missing or not an array`))
	}

	var bills []entity.Bill
	if err := json.Unmarshal(raw, &bills); err != nil {
		return nil, apperror.NewMalformedError(OpList, err)
	}
	if bills == nil {
		bills = []entity.Bill{}
	}
	return bills, nil
}

// Delete removes a bill. The backend signals success with a 2xx status and
// a truthy JSON body.
func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, deletePath+url.PathEscape(id), nil)
	if err != nil {
		return apperror.NewTransportError(OpDelete, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperror.NewStatusError(OpDelete, resp.StatusCode)
	}

	var result any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return apperror.NewMalformedError(OpDelete, err)
	}
	if !truthy(result) {
		return apperror.NewMalformedError(OpDelete, fmt.Errorf("backend did not confirm deletion: %v", result))
	}
	return nil
}

// The backend expects amounts as JSON numbers.
type createRequest struct {
	CustomerName string          `json:"customerName"`
	Address      string          `json:"address,omitempty"`
	PhoneNumber  string          `json:"phoneNumber,omitempty"`
	TotalAmount  json.Number     `json:"totalAmount"`
	Products     []createProduct `json:"products"`
}

type createProduct struct {
	Name     string      `json:"productname"`
	Quantity int         `json:"quantity"`
	Price    json.Number `json:"price"`
}

func toCreateRequest(bill *entity.NewBill) createRequest {
	req := createRequest{
		CustomerName: bill.CustomerName,
		Address:      bill.Address,
		PhoneNumber:  bill.PhoneNumber,
		TotalAmount:  json.Number(bill.TotalAmount.String()),
		Products:     make([]createProduct, 0, len(bill.Products)),
	}
	for _, p := range bill.Products {
		req.Products = append(req.Products, createProduct{
			Name:     p.Name,
			Quantity: p.Quantity,
			Price:    json.Number(p.Price.String()),
		})
	}
	return req
}

// Create posts a new bill.
func (c *Client) Create(ctx context.Context, bill *entity.NewBill) error {
	body, err := json.Marshal(toCreateRequest(bill))
	if err != nil {
		return apperror.NewMalformedError(OpCreate, err)
	}

	resp, err := c.do(ctx, http.MethodPost, createPath, bytes.NewReader(body))
	if err != nil {
		return apperror.NewTransportError(OpCreate, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperror.NewStatusError(OpCreate, resp.StatusCode)
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
