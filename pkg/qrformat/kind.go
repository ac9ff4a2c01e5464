// Package qrformat defines the payload kinds, their form fields and the
// encoders that turn form values into QR code payload strings.
package qrformat

import (
	"fmt"
	"strings"
)

// Kind selects which structured data a QR code carries
type Kind string

const (
	KindURL      Kind = "url"
	KindPhone    Kind = "phone"
	KindWhatsApp Kind = "whatsapp"
	KindEmail    Kind = "email"
	KindText     Kind = "text"
	KindWiFi     Kind = "wifi"
	KindSMS      Kind = "sms"
	KindMultiURL Kind = "multiurl"
	KindContact  Kind = "contact"
	KindUPI      Kind = "upi"
)

var kindLabels = map[Kind]string{
	KindURL:      "Website URL",
	KindPhone:    "Phone",
	KindWhatsApp: "WhatsApp",
	KindEmail:    "Email",
	KindText:     "Text",
	KindWiFi:     "Wi-Fi",
	KindSMS:      "SMS",
	KindMultiURL: "Multiple URLs",
	KindContact:  "Contact (vCard)",
	KindUPI:      "UPI Payment",
}

// AllKinds returns every supported kind in selector order
func AllKinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for _, p := range registry {
		kinds = append(kinds, p.kind())
	}
	return kinds
}

// Label returns the human readable name shown in the kind selector
func (k Kind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return string(k)
}

// Valid reports whether k has a registered encoder
func (k Kind) Valid() bool {
	_, ok := lookup(k)
	return ok
}

// ParseKind resolves a selector value, case-insensitively
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown kind '%s'", s)
	}
	return k, nil
}
