package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
)

func typeText(m FormModel, text string) FormModel {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestFormModel_FieldsFollowSchema(t *testing.T) {
	for _, kind := range qrformat.AllKinds() {
		m := NewFormModel(kind)
		schema := qrformat.SchemaFor(kind)
		require.Len(t, m.fields, len(schema), kind)
		for i, f := range m.fields {
			assert.Equal(t, schema[i].ID, f.desc.ID)
		}
	}
}

func TestFormModel_TypingAndNavigation(t *testing.T) {
	m := NewFormModel(qrformat.KindEmail)
	m.Focus()

	m = typeText(m, "a@b.com")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "Hi")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = typeText(m, "x")

	assert.Equal(t, "a@b.comx", m.Value("value_email"))
	assert.Equal(t, "Hi", m.Value("value_email_sub"))

	payload, err := qrformat.Encode(qrformat.KindEmail, m.Getter())
	require.NoError(t, err)
	assert.Equal(t, "mailto:a@b.comx?subject=Hi", payload)
}

func TestFormModel_IgnoresKeysWhenBlurred(t *testing.T) {
	m := NewFormModel(qrformat.KindURL)
	m = typeText(m, "example.com")
	assert.Equal(t, "", m.Value("value_url"))
}

func TestFormModel_SelectCycles(t *testing.T) {
	m := NewFormModel(qrformat.KindWiFi)
	assert.Equal(t, "WPA", m.Value("value_auth"))

	m.Focus()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "WEP", m.Value("value_auth"))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "nopass", m.Value("value_auth"))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "nopass", m.Value("value_auth"))
}

func TestFormModel_SetValue(t *testing.T) {
	m := NewFormModel(qrformat.KindWiFi)
	require.NoError(t, m.SetValue("value_ssid", "Home"))
	require.NoError(t, m.SetValue("value_auth", "nopass"))
	assert.Error(t, m.SetValue("value_auth", "WPA3"))
	assert.Error(t, m.SetValue("value_url", "x"))

	payload, err := qrformat.Encode(qrformat.KindWiFi, m.Getter())
	require.NoError(t, err)
	assert.Equal(t, "WIFI:T:nopass;S:Home;H:false;;", payload)
}

func TestFormModel_SetKindDropsValues(t *testing.T) {
	m := NewFormModel(qrformat.KindText)
	require.NoError(t, m.SetValue("value_text", "hello"))

	m.SetKind(qrformat.KindSMS)
	assert.Equal(t, qrformat.KindSMS, m.Kind())
	assert.Equal(t, "", m.Value("value_text"))
	assert.Contains(t, m.View(), "Phone Number")
}

func TestFormModel_PasswordIsMasked(t *testing.T) {
	m := NewFormModel(qrformat.KindWiFi)
	require.NoError(t, m.SetValue("value_password", "hunter2"))
	assert.NotContains(t, m.View(), "hunter2")
}
