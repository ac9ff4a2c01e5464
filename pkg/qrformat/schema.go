package qrformat

// InputKind is the kind of form control a field is edited with
type InputKind string

const (
	InputText     InputKind = "text"
	InputURL      InputKind = "url"
	InputTel      InputKind = "tel"
	InputEmail    InputKind = "email"
	InputPassword InputKind = "password"
	InputNumber   InputKind = "number"
	InputTextarea InputKind = "textarea"
	InputSelect   InputKind = "select"
)

// FieldDescriptor describes one form field of a payload kind
type FieldDescriptor struct {
	ID       string    `json:"id" yaml:"id"`
	Label    string    `json:"label" yaml:"label"`
	Input    InputKind `json:"input" yaml:"input"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Options  []string  `json:"options,omitempty" yaml:"options,omitempty"` // select only
	Default  string    `json:"default,omitempty" yaml:"default,omitempty"`
}

// payloadType ties a kind's form fields to its encoder. The registry only
// holds payloadType values, so a kind cannot exist without a build step.
type payloadType interface {
	kind() Kind
	fields() []FieldDescriptor
	missing() string
	build(v values) (string, error)
}

var registry = []payloadType{
	urlPayload{},
	phonePayload{},
	whatsAppPayload{},
	emailPayload{},
	textPayload{},
	wifiPayload{},
	smsPayload{},
	multiURLPayload{},
	contactPayload{},
	upiPayload{},
}

func lookup(k Kind) (payloadType, bool) {
	for _, p := range registry {
		if p.kind() == k {
			return p, true
		}
	}
	return nil, false
}

// SchemaFor returns the ordered form fields for a kind. Unknown kinds yield
// an empty schema; the caller decides how to react.
func SchemaFor(k Kind) []FieldDescriptor {
	p, ok := lookup(k)
	if !ok {
		return nil
	}

	src := p.fields()
	out := make([]FieldDescriptor, len(src))
	for i, f := range src {
		f.Options = append([]string(nil), f.Options...)
		out[i] = f
	}
	return out
}

// Field returns a single descriptor of a kind's schema
func Field(k Kind, id string) (FieldDescriptor, bool) {
	for _, f := range SchemaFor(k) {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Wi-Fi authentication modes
const (
	AuthWPA    = "WPA"
	AuthWEP    = "WEP"
	AuthNoPass = "nopass"
)

var (
	urlFields = []FieldDescriptor{
		{ID: "value_url", Label: "Website URL", Input: InputURL, Required: true},
	}
	phoneFields = []FieldDescriptor{
		{ID: "value_phone", Label: "Phone Number", Input: InputTel, Required: true},
	}
	whatsAppFields = []FieldDescriptor{
		{ID: "value_wa", Label: "WhatsApp Number", Input: InputTel, Required: true},
		{ID: "value_wa_msg", Label: "Message", Input: InputText},
	}
	emailFields = []FieldDescriptor{
		{ID: "value_email", Label: "Email Address", Input: InputEmail, Required: true},
		{ID: "value_email_sub", Label: "Subject", Input: InputText},
		{ID: "value_email_body", Label: "Body", Input: InputTextarea},
	}
	textFields = []FieldDescriptor{
		{ID: "value_text", Label: "Custom Text", Input: InputTextarea, Required: true},
	}
	wifiFields = []FieldDescriptor{
		{ID: "value_ssid", Label: "Network SSID", Input: InputText, Required: true},
		{ID: "value_password", Label: "Password", Input: InputPassword},
		{ID: "value_auth", Label: "Encryption", Input: InputSelect, Options: []string{AuthWPA, AuthWEP, AuthNoPass}, Default: AuthWPA},
	}
	smsFields = []FieldDescriptor{
		{ID: "sms_number", Label: "Phone Number", Input: InputTel, Required: true},
		{ID: "sms_message", Label: "Message", Input: InputTextarea},
	}
	multiURLFields = []FieldDescriptor{
		{ID: "multi_1", Label: "Primary URL", Input: InputURL, Required: true},
		{ID: "multi_2", Label: "Secondary URL", Input: InputURL},
		{ID: "multi_3", Label: "Third URL", Input: InputURL},
	}
	contactFields = []FieldDescriptor{
		{ID: "c_name", Label: "Full Name", Input: InputText, Required: true},
		{ID: "c_phone", Label: "Phone Number", Input: InputTel},
		{ID: "c_email", Label: "Email", Input: InputEmail},
		{ID: "c_org", Label: "Organization", Input: InputText},
		{ID: "c_title", Label: "Job Title", Input: InputText},
	}
	upiFields = []FieldDescriptor{
		{ID: "value_vpa", Label: "UPI ID (VPA)", Input: InputText, Required: true},
		{ID: "value_name", Label: "Payee Name", Input: InputText},
		{ID: "value_amount", Label: "Amount", Input: InputNumber},
		{ID: "value_note", Label: "Note / Description", Input: InputText},
	}
)
