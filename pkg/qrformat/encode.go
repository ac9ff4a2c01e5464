package qrformat

import (
	"fmt"
	"regexp"
	"strings"
)

// Getter reads the current raw value of a form field. Fields absent from
// the form read as the empty string.
type Getter func(id string) string

// MapGetter adapts a plain map to a Getter
func MapGetter(m map[string]string) Getter {
	return func(id string) string {
		return m[id]
	}
}

// values holds the trimmed, defaulted field values of one encode call
type values map[string]string

func (v values) get(id string) string {
	return v[id]
}

// Encode validates the form values of kind and serializes them into the
// payload string carried by the QR code.
func Encode(kind Kind, get Getter) (string, error) {
	p, ok := lookup(kind)
	if !ok {
		return "", &ValidationError{Kind: kind, Message: ErrUnsupportedKind.Error(), err: ErrUnsupportedKind}
	}
	if get == nil {
		get = func(string) string { return "" }
	}

	v := make(values)
	for _, f := range p.fields() {
		raw := strings.TrimSpace(get(f.ID))
		if raw == "" {
			raw = f.Default
		}
		v[f.ID] = raw
	}

	for _, f := range p.fields() {
		if f.Required && v[f.ID] == "" {
			return "", &ValidationError{Kind: kind, Field: f.ID, Message: p.missing()}
		}
		if f.Input == InputSelect && v[f.ID] != "" && !contains(f.Options, v[f.ID]) {
			return "", &ValidationError{
				Kind:    kind,
				Field:   f.ID,
				Message: fmt.Sprintf("Unsupported %s: %s.", f.Label, v[f.ID]),
			}
		}
	}

	return p.build(v)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// keepDigits drops every character except ASCII digits, and '+' when plus is set
func keepDigits(s string, plus bool) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('0' <= c && c <= '9') || (plus && c == '+') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// escapeWiFi backslash-escapes the characters with meaning in WIFI: strings
func escapeWiFi(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', ';', ',', ':', '"':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

type urlPayload struct{}

func (urlPayload) kind() Kind                { return KindURL }
func (urlPayload) fields() []FieldDescriptor { return urlFields }
func (urlPayload) missing() string           { return "Please enter a URL." }

func (urlPayload) build(v values) (string, error) {
	u := v.get("value_url")
	if !schemePattern.MatchString(u) {
		u = "https://" + u
	}
	return u, nil
}

type phonePayload struct{}

func (phonePayload) kind() Kind                { return KindPhone }
func (phonePayload) fields() []FieldDescriptor { return phoneFields }
func (phonePayload) missing() string           { return "Please enter a phone number." }

func (p phonePayload) build(v values) (string, error) {
	num := keepDigits(v.get("value_phone"), true)
	if num == "" {
		return "", &ValidationError{Kind: KindPhone, Field: "value_phone", Message: p.missing()}
	}
	return "tel:" + num, nil
}

type whatsAppPayload struct{}

func (whatsAppPayload) kind() Kind                { return KindWhatsApp }
func (whatsAppPayload) fields() []FieldDescriptor { return whatsAppFields }
func (whatsAppPayload) missing() string           { return "Please enter WhatsApp number." }

func (p whatsAppPayload) build(v values) (string, error) {
	num := keepDigits(v.get("value_wa"), false)
	if num == "" {
		return "", &ValidationError{Kind: KindWhatsApp, Field: "value_wa", Message: p.missing()}
	}
	if msg := v.get("value_wa_msg"); msg != "" {
		return "https://wa.me/" + num + "?text=" + escapeComponent(msg), nil
	}
	return "https://wa.me/" + num, nil
}

type emailPayload struct{}

func (emailPayload) kind() Kind                { return KindEmail }
func (emailPayload) fields() []FieldDescriptor { return emailFields }
func (emailPayload) missing() string           { return "Please enter an email." }

func (emailPayload) build(v values) (string, error) {
	var q query
	q.setIf("subject", v.get("value_email_sub"))
	q.setIf("body", v.get("value_email_body"))

	addr := v.get("value_email")
	if q.empty() {
		return "mailto:" + addr, nil
	}
	return "mailto:" + addr + "?" + q.encode(), nil
}

type textPayload struct{}

func (textPayload) kind() Kind                { return KindText }
func (textPayload) fields() []FieldDescriptor { return textFields }
func (textPayload) missing() string           { return "Please enter text." }

func (textPayload) build(v values) (string, error) {
	return v.get("value_text"), nil
}

type wifiPayload struct{}

func (wifiPayload) kind() Kind                { return KindWiFi }
func (wifiPayload) fields() []FieldDescriptor { return wifiFields }
func (wifiPayload) missing() string           { return "Please enter SSID." }

func (wifiPayload) build(v values) (string, error) {
	auth := v.get("value_auth")

	var b strings.Builder
	b.WriteString("WIFI:T:")
	b.WriteString(auth)
	b.WriteString(";S:")
	b.WriteString(escapeWiFi(v.get("value_ssid")))
	if auth != AuthNoPass {
		b.WriteString(";P:")
		b.WriteString(escapeWiFi(v.get("value_password")))
	}
	b.WriteString(";H:false;;")
	return b.String(), nil
}

type smsPayload struct{}

func (smsPayload) kind() Kind                { return KindSMS }
func (smsPayload) fields() []FieldDescriptor { return smsFields }
func (smsPayload) missing() string           { return "Enter phone number for SMS." }

func (p smsPayload) build(v values) (string, error) {
	num := keepDigits(v.get("sms_number"), true)
	if num == "" {
		return "", &ValidationError{Kind: KindSMS, Field: "sms_number", Message: p.missing()}
	}
	if msg := v.get("sms_message"); msg != "" {
		return "sms:" + num + "?body=" + escapeComponent(msg), nil
	}
	return "sms:" + num, nil
}

type multiURLPayload struct{}

func (multiURLPayload) kind() Kind                { return KindMultiURL }
func (multiURLPayload) fields() []FieldDescriptor { return multiURLFields }
func (multiURLPayload) missing() string           { return "Primary URL required." }

func (multiURLPayload) build(v values) (string, error) {
	urls := make([]string, 0, len(multiURLFields))
	for _, f := range multiURLFields {
		if u := v.get(f.ID); u != "" {
			urls = append(urls, u)
		}
	}
	return strings.Join(urls, "\n"), nil
}

type contactPayload struct{}

func (contactPayload) kind() Kind                { return KindContact }
func (contactPayload) fields() []FieldDescriptor { return contactFields }
func (contactPayload) missing() string           { return "Full name required." }

// build always emits every vCard line; empty optional fields stay as empty values.
func (contactPayload) build(v values) (string, error) {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + v.get("c_name"),
		"ORG:" + v.get("c_org"),
		"TITLE:" + v.get("c_title"),
		"TEL:" + v.get("c_phone"),
		"EMAIL:" + v.get("c_email"),
		"END:VCARD",
	}
	return strings.Join(lines, "\n"), nil
}

type upiPayload struct{}

func (upiPayload) kind() Kind                { return KindUPI }
func (upiPayload) fields() []FieldDescriptor { return upiFields }
func (upiPayload) missing() string           { return "Please enter UPI ID." }

func (upiPayload) build(v values) (string, error) {
	var q query
	q.set("pa", v.get("value_vpa"))
	q.set("cu", "INR")
	q.setIf("pn", v.get("value_name"))
	if raw := v.get("value_amount"); raw != "" {
		am, ok := formatAmount(raw)
		if !ok {
			return "", &ValidationError{Kind: KindUPI, Field: "value_amount", Message: "Please enter a valid amount."}
		}
		q.set("am", am)
	}
	q.setIf("tn", v.get("value_note"))
	return "upi://pay?" + q.encode(), nil
}
