package service

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

/* =========================================================
   Gateway (Midtrans Snap)
========================================================= */

type Customer struct {
	FullName string
	Email    string
	Phone    string
}

type SnapResult struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// Gateway membuat sesi pembayaran online untuk satu tagihan.
type Gateway interface {
	CreatePayment(orderID string, amount int64, itemName string, cust Customer) (SnapResult, error)
	ServerKey() string
}

type MidtransGateway struct {
	client    snap.Client
	serverKey string
}

// NewMidtransGateway: useProduction=false → Sandbox.
func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	g := &MidtransGateway{serverKey: serverKey}
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}
	g.client.New(serverKey, env)
	return g
}

func (g *MidtransGateway) ServerKey() string { return g.serverKey }

func (g *MidtransGateway) CreatePayment(orderID string, amount int64, itemName string, cust Customer) (SnapResult, error) {
	if amount <= 0 {
		return SnapResult{}, errors.New("nominal pembayaran harus > 0")
	}
	first, last := splitName(cust.FullName)
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       orderID,
			Price:    amount,
			Qty:      1,
			Name:     truncate(itemName, 50),
			Category: "Denda Perpustakaan",
		}},
	}

	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return SnapResult{}, err
	}
	return SnapResult{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

/* =========================================================
   Webhook notification
========================================================= */

type Notification struct {
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

// Signature = SHA512(order_id + status_code + gross_amount + server_key), hex lowercase.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

func (n Notification) Verify(serverKey string) bool {
	want := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if want == "" || serverKey == "" {
		return false
	}
	got := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// Paid: settlement, atau capture kartu kredit dengan fraud=accept.
func (n Notification) Paid() bool {
	switch strings.ToLower(n.TransactionStatus) {
	case "settlement":
		return true
	case "capture":
		return strings.ToLower(n.FraudStatus) == "accept"
	}
	return false
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i], strings.TrimSpace(full[i+1:])
	}
	return full, ""
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
