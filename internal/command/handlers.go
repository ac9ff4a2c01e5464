package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/thereceipt/qr-engine/internal/export"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
)

// handleKind shows or switches the payload kind
// Usage: kind [name]
func (e *Executor) handleKind(args []string) *Result {
	if len(args) == 0 {
		kinds := make([]string, 0, len(qrformat.AllKinds()))
		for _, k := range qrformat.AllKinds() {
			kinds = append(kinds, string(k))
		}
		current := e.session.Kind()
		return &Result{
			Success: true,
			Message: fmt.Sprintf("Current kind: %s (%s)\nAvailable: %s", current, current.Label(), strings.Join(kinds, ", ")),
			Data: map[string]interface{}{
				"kind":  string(current),
				"kinds": kinds,
			},
		}
	}

	kind, err := qrformat.ParseKind(args[0])
	if err != nil {
		return failure(err)
	}
	if err := e.session.SetKind(kind); err != nil {
		return failure(err)
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Kind set to %s", kind.Label()),
		Data:    map[string]interface{}{"kind": string(kind)},
		Refresh: true,
	}
}

// handleFields lists the form fields of the current kind
func (e *Executor) handleFields(args []string) *Result {
	kind := e.session.Kind()
	fields := qrformat.SchemaFor(kind)

	var b strings.Builder
	fmt.Fprintf(&b, "Fields for %s:\n", kind.Label())
	for _, f := range fields {
		marker := " "
		if f.Required {
			marker = "*"
		}
		fmt.Fprintf(&b, "  %s %-18s %s (%s)", marker, f.ID, f.Label, f.Input)
		if len(f.Options) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(f.Options, "|"))
		}
		if v := e.session.Value(f.ID); v != "" && f.Input != qrformat.InputPassword {
			fmt.Fprintf(&b, " = %q", v)
		}
		b.WriteString("\n")
	}

	return &Result{
		Success: true,
		Message: strings.TrimRight(b.String(), "\n"),
		Data:    map[string]interface{}{"fields": fields},
	}
}

// handleSet stores a form value and rebuilds the payload
// Usage: set <field> <value...>
func (e *Executor) handleSet(args []string) *Result {
	if len(args) < 1 {
		return &Result{
			Success: false,
			Error:   "usage: set <field> <value...>",
		}
	}

	id := args[0]
	value := strings.Join(args[1:], " ")
	if err := e.session.Set(id, value); err != nil {
		return failure(err)
	}

	payload, err := e.session.Build()
	if err != nil {
		// The value is stored; the form is just not complete yet
		return &Result{
			Success: true,
			Message: fmt.Sprintf("Set %s (%s)", id, errorText(err)),
			Refresh: true,
		}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Set %s", id),
		Data:    map[string]interface{}{"payload": payload},
		Refresh: true,
	}
}

// handlePayload builds and shows the current payload
func (e *Executor) handlePayload(args []string) *Result {
	payload, err := e.session.Build()
	if err != nil {
		return failure(err)
	}
	return &Result{
		Success: true,
		Message: payload,
		Data:    map[string]interface{}{"payload": payload},
	}
}

// handleStyle changes one appearance setting
// Usage: style <fg|bg|background|dots|eyes|logo-size|logo-radius|margin> <value>
func (e *Executor) handleStyle(args []string) *Result {
	style := e.session.Style()
	if len(args) == 0 {
		return &Result{
			Success: true,
			Message: fmt.Sprintf("fg=%s bg=%s background=%t dots=%s eyes=%s logo-size=%d%% logo-radius=%d%% margin=%d",
				style.Foreground, style.Background, style.BackgroundEnabled, style.Dots, style.Eyes,
				style.LogoSize, style.LogoRadius, style.Margin),
			Data: map[string]interface{}{"style": style},
		}
	}
	if len(args) < 2 {
		return &Result{
			Success: false,
			Error:   "usage: style <fg|bg|background|dots|eyes|logo-size|logo-radius|margin> <value>",
		}
	}

	key := strings.ToLower(args[0])
	value := args[1]

	var err error
	switch key {
	case "fg", "foreground":
		style.Foreground = value
	case "bg", "background-color":
		style.Background = value
	case "background":
		style.BackgroundEnabled, err = parseToggle(value)
	case "dots":
		style.Dots = strings.ToLower(value)
	case "eyes":
		style.Eyes = strings.ToLower(value)
	case "logo-size":
		style.LogoSize, err = parsePercent(value)
	case "logo-radius":
		style.LogoRadius, err = parsePercent(value)
	case "margin":
		style.Margin, err = strconv.Atoi(value)
	default:
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("unknown style setting: %s", key),
		}
	}
	if err != nil {
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("invalid value for %s: %s", key, value),
		}
	}

	if err := e.session.SetStyle(style); err != nil {
		return failure(err)
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Style %s set to %s", key, value),
		Refresh: true,
	}
}

// handleLogo loads or removes the logo
// Usage: logo <path> | logo remove
func (e *Executor) handleLogo(args []string) *Result {
	if len(args) == 0 {
		return &Result{
			Success: false,
			Error:   "usage: logo <path> | logo remove",
		}
	}

	if args[0] == "remove" || args[0] == "clear" {
		e.session.RemoveLogo()
		return &Result{
			Success: true,
			Message: "Logo removed",
			Refresh: true,
		}
	}

	if err := e.session.LoadLogoFile(args[0]); err != nil {
		return failure(err)
	}
	return &Result{
		Success: true,
		Message: fmt.Sprintf("Logo loaded from %s", args[0]),
		Refresh: true,
	}
}

// handleExport saves the current code
// Usage: export [png|svg]
func (e *Executor) handleExport(ctx context.Context, args []string) *Result {
	format := e.format
	if len(args) > 0 {
		f, err := export.ParseFormat(args[0])
		if err != nil {
			return failure(err)
		}
		format = f
	}

	saved, err := e.session.Export(ctx, format)
	if err != nil {
		return failure(err)
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Saved %s", saved.Path),
		Data: map[string]interface{}{
			"path":   saved.Path,
			"format": string(saved.Format),
			"bytes":  saved.Bytes,
		},
	}
}

// handleCopy copies the preview to the clipboard
func (e *Executor) handleCopy(ctx context.Context, args []string) *Result {
	if err := e.session.Copy(ctx); err != nil {
		return failure(err)
	}
	return &Result{
		Success: true,
		Message: "Copied to clipboard",
	}
}

// handleReset clears the form, logo and style
func (e *Executor) handleReset(args []string) *Result {
	e.session.Reset()
	return &Result{
		Success: true,
		Message: "Form reset",
		Refresh: true,
	}
}

// handleHelp shows help information
func (e *Executor) handleHelp(args []string) *Result {
	helpText := `Available Commands:

  kind [name]
    Show the current kind, or switch to another one
    (url, phone, whatsapp, email, text, wifi, sms, multiurl, contact, upi)

  fields
    List the form fields of the current kind

  set <field> <value...>
    Set a form field of the current kind

  payload
    Show the encoded payload

  style [setting value]
    Show or change the appearance
    fg <#hex>  bg <#hex|transparent>  background <on|off>
    dots <square|dots|rounded|extra-rounded>  eyes <square|dot|extra-rounded>
    logo-size <0-40>  logo-radius <0-50>  margin <0-16>

  logo <path> | logo remove
    Load a logo image for the centre of the code, or remove it

  export [png|svg]
    Save the code at export resolution

  copy
    Copy the preview image to the clipboard

  reset
    Clear the form, logo and style

  help
    Show this help message

Examples:
  kind wifi
  set value_ssid "Home Network"
  set value_auth WEP
  style dots rounded
  logo ./brand.png
  export svg
`

	return &Result{
		Success: true,
		Message: helpText,
	}
}

func parseToggle(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a toggle: %s", s)
}

func parsePercent(s string) (int, error) {
	return strconv.Atoi(strings.TrimSuffix(s, "%"))
}
