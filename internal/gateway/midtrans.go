package gateway

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"rentago/internal/utils"
)

// Item is one line of the checkout summary. Price may be negative for a discount line.
type Item struct {
	ID    string
	Name  string
	Price int64
	Qty   int32
}

type Customer struct {
	Name  string
	Email string
	Phone string
}

// SessionRequest describes a hosted checkout to open.
type SessionRequest struct {
	OrderID     string
	GrossAmount int64
	Items       []Item
	Customer    Customer
	FinishURL   string
}

type Session struct {
	Token       string
	RedirectURL string
}

// StatusResult is the gateway's authoritative view of a transaction.
type StatusResult struct {
	OrderID           string
	TransactionID     string
	TransactionStatus TransactionStatus
	FraudStatus       FraudStatus
	StatusCode        string
	GrossAmount       string
	PaymentType       string
	Raw               json.RawMessage
}

// Midtrans talks to Snap for checkout sessions and the Core API for status.
type Midtrans struct {
	serverKey string
	timeout   time.Duration
	snap      snap.Client
	core      coreapi.Client
}

func NewMidtrans(serverKey, env string, timeout time.Duration) *Midtrans {
	e := midtrans.Sandbox
	if strings.EqualFold(env, "production") {
		e = midtrans.Production
	}
	m := &Midtrans{serverKey: serverKey, timeout: timeout}
	m.snap.New(serverKey, e)
	m.core.New(serverKey, e)
	return m
}

// call runs fn bounded by ctx and the client timeout. The SDK has no context
// support, so an abandoned call finishes in the background.
func call[T any](ctx context.Context, timeout time.Duration, fn func() (T, *midtrans.Error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	type result struct {
		val T
		err *midtrans.Error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{val: v, err: err}
	}()

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-done:
		if r.err != nil {
			msg := r.err.Message
			if msg == "" && r.err.RawError != nil {
				msg = r.err.RawError.Error()
			}
			return zero, errors.New(msg)
		}
		return r.val, nil
	}
}

func (m *Midtrans) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	items := make([]midtrans.ItemDetails, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, midtrans.ItemDetails{
			ID:    it.ID,
			Name:  truncate(it.Name, 50),
			Price: it.Price,
			Qty:   it.Qty,
		})
	}
	sreq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.GrossAmount,
		},
		Items: &items,
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
	}
	if req.FinishURL != "" {
		sreq.Callbacks = &snap.Callbacks{Finish: req.FinishURL}
	}

	resp, err := call(ctx, m.timeout, func() (*snap.Response, *midtrans.Error) {
		return m.snap.CreateTransaction(sreq)
	})
	if err != nil {
		return Session{}, err
	}
	if resp == nil || resp.Token == "" {
		return Session{}, errors.New("snap response tanpa token")
	}
	return Session{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func (m *Midtrans) TransactionStatus(ctx context.Context, orderID string) (StatusResult, error) {
	resp, err := call(ctx, m.timeout, func() (*coreapi.TransactionStatusResponse, *midtrans.Error) {
		return m.core.CheckTransaction(orderID)
	})
	if err != nil {
		return StatusResult{}, err
	}
	if resp == nil {
		return StatusResult{}, errors.New("status response kosong")
	}
	return StatusResult{
		OrderID:           resp.OrderID,
		TransactionID:     resp.TransactionID,
		TransactionStatus: TransactionStatus(resp.TransactionStatus),
		FraudStatus:       FraudStatus(resp.FraudStatus),
		StatusCode:        resp.StatusCode,
		GrossAmount:       resp.GrossAmount,
		PaymentType:       resp.PaymentType,
		Raw:               rawJSON(orderID, resp),
	}, nil
}

// rawJSON encodes the gateway response for the payments audit column.
// An encoding failure only loses the audit copy.
func rawJSON(orderID string, v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		utils.LogWarn("", "gateway", "status", "raw response tidak tersimpan order_id="+orderID+": "+err.Error())
		return nil
	}
	return raw
}

// VerifySignature checks a notification's signature_key.
func (m *Midtrans) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return VerifySignature(m.serverKey, orderID, statusCode, grossAmount, signature)
}

// Signature is sha512(order_id + status_code + gross_amount + server_key), hex encoded.
func Signature(serverKey, orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func VerifySignature(serverKey, orderID, statusCode, grossAmount, signature string) bool {
	if signature == "" {
		return false
	}
	want := Signature(serverKey, orderID, statusCode, grossAmount)
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(signature))) == 1
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
