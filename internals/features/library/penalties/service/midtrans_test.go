package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationVerify(t *testing.T) {
	n := Notification{OrderID: "PNL-ABCD-1", StatusCode: "200", GrossAmount: "5000.00", TransactionStatus: "settlement"}
	n.SignatureKey = Signature(n.OrderID, n.StatusCode, n.GrossAmount, "sk-test")

	assert.True(t, n.Verify("sk-test"))
	assert.False(t, n.Verify("sk-lain"))
	assert.False(t, n.Verify(""))

	n.GrossAmount = "50000.00"
	assert.False(t, n.Verify("sk-test"))
}

func TestNotificationPaid(t *testing.T) {
	cases := []struct {
		status, fraud string
		want          bool
	}{
		{"settlement", "", true},
		{"capture", "accept", true},
		{"capture", "challenge", false},
		{"pending", "", false},
		{"expire", "", false},
	}
	for _, tc := range cases {
		n := Notification{TransactionStatus: tc.status, FraudStatus: tc.fraud}
		assert.Equal(t, tc.want, n.Paid(), tc.status+"/"+tc.fraud)
	}
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Siti Nurhaliza Putri")
	assert.Equal(t, "Siti", first)
	assert.Equal(t, "Nurhaliza Putri", last)

	first, last = splitName("Budi")
	assert.Equal(t, "Budi", first)
	assert.Empty(t, last)
}
