package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/avasiliev/tfadump/internal/vault"
)

// Mode selects the output rendering.
type Mode string

const (
	ModeJSON   Mode = "json"
	ModeCSV    Mode = "csv"
	ModePretty Mode = "pretty"
)

// ParseMode validates an output mode given on the command line.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeJSON, ModeCSV, ModePretty:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (want json, csv or pretty)", s)
}

var header = []string{"name", "issuer", "account", "secret", "algorithm", "digits", "period", "type"}

// Render writes the service list to w in the requested mode.
func Render(w io.Writer, services []vault.Service, mode Mode) error {
	switch mode {
	case ModeJSON:
		return renderJSON(w, services)
	case ModeCSV:
		return renderCSV(w, services)
	case ModePretty:
		return renderPretty(w, services)
	}
	return fmt.Errorf("unknown output format %q", mode)
}

func renderJSON(w io.Writer, services []vault.Service) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(services)
}

func renderCSV(w io.Writer, services []vault.Service) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, svc := range services {
		if err := cw.Write(flatten(svc)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderPretty(w io.Writer, services []vault.Service) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tISSUER\tACCOUNT\tSECRET\tALGORITHM\tDIGITS\tPERIOD\tTYPE")
	for _, svc := range services {
		row := flatten(svc)
		for i, field := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, field)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// flatten turns one service into an ordered record matching header.
func flatten(svc vault.Service) []string {
	return []string{
		svc.Name,
		svc.OTP.Issuer,
		svc.OTP.Account,
		svc.Secret,
		svc.OTP.Algorithm,
		strconv.Itoa(svc.OTP.Digits),
		strconv.Itoa(svc.OTP.Period),
		svc.OTP.TokenType,
	}
}
