package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
)

type stubDriver struct {
	inputs    []string
	passwords []string
	selectIdx []int
	textAreas []string
	infos     []string

	inputPos  int
	passPos   int
	selectPos int
	textPos   int

	inputCfgs []InputConfig
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.inputCfgs = append(s.inputCfgs, cfg)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	return cfg.Default, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func TestForm_ChooseKind(t *testing.T) {
	d := &stubDriver{selectIdx: []int{5}}
	kind, err := New(d).ChooseKind(context.Background())
	if err != nil {
		t.Fatalf("ChooseKind failed: %v", err)
	}
	if kind != qrformat.AllKinds()[5] {
		t.Errorf("Expected %s, got %s", qrformat.AllKinds()[5], kind)
	}
}

func TestForm_FillWiFi(t *testing.T) {
	d := &stubDriver{
		inputs:    []string{"Home"},
		passwords: []string{"s3cret"},
		selectIdx: []int{1},
	}

	values, payload, err := New(d).Fill(context.Background(), qrformat.KindWiFi)
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}

	want := map[string]string{
		"value_ssid":     "Home",
		"value_password": "s3cret",
		"value_auth":     "WEP",
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if payload != "WIFI:T:WEP;S:Home;P:s3cret;H:false;;" {
		t.Errorf("Unexpected payload: %q", payload)
	}
}

func TestForm_FillAsksAgainOnValidationError(t *testing.T) {
	d := &stubDriver{
		inputs:    []string{"call me", "+1 555 0100"},
		textAreas: []string{"hi"},
	}

	values, payload, err := New(d).Fill(context.Background(), qrformat.KindSMS)
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if payload != "sms:+15550100?body=hi" {
		t.Errorf("Unexpected payload: %q", payload)
	}
	if values["sms_number"] != "+1 555 0100" {
		t.Errorf("Expected corrected number, got %q", values["sms_number"])
	}
	if len(d.infos) != 1 || d.infos[0] != "✗ Enter phone number for SMS." {
		t.Errorf("Unexpected info messages: %v", d.infos)
	}
	if d.inputCfgs[1].Default != "call me" {
		t.Errorf("Expected previous value as default, got %q", d.inputCfgs[1].Default)
	}
}

func TestForm_FillGivesUp(t *testing.T) {
	// vpa, name, amount, note; amount is then asked again until the limit
	d := &stubDriver{inputs: []string{"a@bank", "", "x", "", "x", "x", "x", "x", "x"}}
	_, _, err := New(d).Fill(context.Background(), qrformat.KindUPI)
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("Expected ErrTooManyAttempts, got %v", err)
	}
}

func TestForm_FillUnknownKind(t *testing.T) {
	_, _, err := New(&stubDriver{}).Fill(context.Background(), qrformat.Kind("nope"))
	if !errors.Is(err, qrformat.ErrUnsupportedKind) {
		t.Errorf("Expected ErrUnsupportedKind, got %v", err)
	}
}

func TestValidatorFor(t *testing.T) {
	amount, _ := qrformat.Field(qrformat.KindUPI, "value_amount")
	v := validatorFor(amount)
	if v("") != nil {
		t.Errorf("Empty optional amount should pass")
	}
	if v("12.50") != nil {
		t.Errorf("Numeric amount should pass")
	}
	if v("twelve") == nil {
		t.Errorf("Non-numeric amount should fail")
	}

	url, _ := qrformat.Field(qrformat.KindURL, "value_url")
	if validatorFor(url)("  ") == nil {
		t.Errorf("Blank required URL should fail")
	}
}
