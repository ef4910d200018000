package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/folio/internal/lifecycle"
	"github.com/mesh-intelligence/folio/pkg/types"
)

const timeFormat = "2006-01-02 15:04:05"

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysErr(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printBlueprintList(w io.Writer, bps []types.Blueprint) {
	if len(bps) == 0 {
		fmt.Fprintln(w, "No blueprints.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tFIELDS\tUPDATED")
	for _, bp := range bps {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", bp.BlueprintID, bp.Name, len(bp.Fields), bp.UpdatedAt.Format(timeFormat))
	}
	tw.Flush()
}

func printBlueprint(w io.Writer, bp types.Blueprint) {
	fmt.Fprintf(w, "ID:          %s\n", bp.BlueprintID)
	fmt.Fprintf(w, "Name:        %s\n", bp.Name)
	if bp.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", bp.Description)
	}
	fmt.Fprintf(w, "Created:     %s\n", bp.CreatedAt.Format(timeFormat))
	fmt.Fprintf(w, "Updated:     %s\n", bp.UpdatedAt.Format(timeFormat))
	fmt.Fprintln(w, "\nFields:")
	tw := newTable(w)
	fmt.Fprintln(tw, "  ID\tTYPE\tLABEL\tPOSITION\tREQUIRED")
	for _, f := range bp.Fields {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%g,%g\t%s\n", f.ID, f.Type, f.Label, f.Position.X, f.Position.Y, yesNo(f.Required))
	}
	tw.Flush()
}

func printContractList(w io.Writer, cs []types.Contract) {
	if len(cs) == 0 {
		fmt.Fprintln(w, "No contracts.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tBLUEPRINT\tSTATUS\tUPDATED")
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ContractID, c.Name, c.BlueprintName, c.Status, c.UpdatedAt.Format(timeFormat))
	}
	tw.Flush()
}

func printContract(w io.Writer, c types.Contract) {
	fmt.Fprintf(w, "ID:        %s\n", c.ContractID)
	fmt.Fprintf(w, "Name:      %s\n", c.Name)
	fmt.Fprintf(w, "Blueprint: %s (%s)\n", c.BlueprintName, c.BlueprintID)
	fmt.Fprintf(w, "Status:    %s\n", c.Status)
	fmt.Fprintf(w, "Created:   %s\n", c.CreatedAt.Format(timeFormat))
	fmt.Fprintf(w, "Updated:   %s\n", c.UpdatedAt.Format(timeFormat))
	fmt.Fprintln(w, "\nFields:")
	tw := newTable(w)
	fmt.Fprintln(tw, "  ID\tTYPE\tREQUIRED\tVALUE")
	for _, fv := range c.FieldValues {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", fv.FieldID, fv.Type, yesNo(fv.Required), fv.Value)
	}
	tw.Flush()
	if missing := lifecycle.MissingRequired(c); len(missing) > 0 {
		fmt.Fprintf(w, "\nMissing required: %s\n", strings.Join(missing, ", "))
	}
}

func printSummary(w io.Writer, s lifecycle.Summary) {
	fmt.Fprintf(w, "Blueprints: %d\n", s.Blueprints)
	fmt.Fprintf(w, "Contracts:  %d\n", s.Contracts)
	fmt.Fprintf(w, "  pending:  %d\n", s.Pending)
	fmt.Fprintf(w, "  signed:   %d\n", s.Signed)
	fmt.Fprintf(w, "  revoked:  %d\n", s.Revoked)
	fmt.Fprintln(w, "\nBy status:")
	tw := newTable(w)
	for _, st := range types.AllStatuses {
		fmt.Fprintf(tw, "  %s\t%d\n", st, s.ByStatus[st])
	}
	tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
