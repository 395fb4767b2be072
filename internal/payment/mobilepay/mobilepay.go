// Package mobilepay implements the payment driver against a mobile-money
// style gateway. The request is signed the way such gateways expect
// (sorted params, MD5 over the query string plus the merchant key) but
// the network leg is simulated: every well-formed charge is accepted and
// the signature doubles as the provider reference.
package mobilepay

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Driver struct {
	MerchantID string
	Key        string
}

func New(merchantID, key string) *Driver {
	return &Driver{MerchantID: merchantID, Key: key}
}

func (d *Driver) Name() string { return "mobilepay" }

func (d *Driver) Charge(reference string, amountCents int64, phoneNumber string) (string, error) {
	if reference == "" {
		return "", errors.New("missing charge reference")
	}
	if amountCents <= 0 {
		return "", errors.New("amount must be positive")
	}
	phone := strings.TrimSpace(phoneNumber)
	if len(phone) < 8 {
		return "", errors.New("invalid phone number")
	}

	data := map[string]string{
		"merchant":     d.MerchantID,
		"out_trade_no": reference,
		"money":        fmt.Sprintf("%d.%02d", amountCents/100, amountCents%100),
		"msisdn":       phone,
	}
	sign := d.generateSign(data)

	// Simulated provider leg: an accepted charge echoes the signed
	// reference back as its external id.
	return "MP-" + sign[:16], nil
}

func (d *Driver) generateSign(data map[string]string) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(data[k])
	}
	b.WriteString(d.Key)

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
