// Package output formats CLI results: status lines, warnings and tables.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/posguard/licadmin/internal/domain"
)

// Printer writes user-facing messages, optionally coloured.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

func NewPrinter(useColors bool) *Printer {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		useColors = false
	}
	return &Printer{
		out:       os.Stdout,
		err:       os.Stderr,
		useColors: useColors,
	}
}

// NewPrinterTo writes to explicit streams, used in tests.
func NewPrinterTo(out, err io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors}
}

func (p *Printer) Successf(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	if p.useColors {
		color.New(color.FgYellow, color.Bold).Fprintf(p.err, "Warning: "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "Warning: "+format+"\n", args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "Error: "+format+"\n", args...)
}

// LicenseStatus renders a license status with conventional colouring.
func (p *Printer) LicenseStatus(status string) string {
	if !p.useColors {
		return status
	}
	switch status {
	case domain.LicenseActive:
		return color.GreenString(status)
	case domain.LicenseSuspended:
		return color.YellowString(status)
	case domain.LicenseRevoked, domain.LicenseExpired:
		return color.RedString(status)
	default:
		return status
	}
}

// Money renders cents as a dollar amount.
func Money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
