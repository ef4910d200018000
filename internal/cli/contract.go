package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/folio/internal/app"
	"github.com/mesh-intelligence/folio/pkg/types"
)

func newContractCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Manage contracts and move them through their lifecycle",
	}
	cmd.AddCommand(
		newContractListCmd(s),
		newContractShowCmd(s),
		newContractCreateCmd(s),
		newContractSetCmd(s),
		newContractTransitionCmd(s, "advance", "Move a contract to its next status",
			(*app.State).AdvanceContract),
		newContractTransitionCmd(s, "revoke", "Revoke a created or sent contract",
			(*app.State).RevokeContract),
		newContractDeleteCmd(s),
	)
	return cmd
}

func newContractListCmd(s *session) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contracts",
		Long: `List contracts, optionally filtered by status.

--status accepts all, active (not locked or revoked), pending (created,
approved, or sent), or a single status name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := types.ParseStatusFilter(status)
			if err != nil {
				return userErr(err)
			}
			return s.withState(func(st *app.State) error {
				cs := st.ListContracts(filter)
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), cs)
				}
				printContractList(cmd.OutOrStdout(), cs)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "status filter")
	return cmd
}

func newContractShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display a contract and its field values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withState(func(st *app.State) error {
				c, err := st.GetContract(args[0])
				if err != nil {
					return check(err)
				}
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), c)
				}
				printContract(cmd.OutOrStdout(), c)
				return nil
			})
		},
	}
}

func newContractCreateCmd(s *session) *cobra.Command {
	var name, blueprintID string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contract from a blueprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withState(func(st *app.State) error {
				c, err := st.CreateContract(name, blueprintID)
				if err != nil {
					return check(err)
				}
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), c)
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.ContractID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "contract name")
	cmd.Flags().StringVar(&blueprintID, "blueprint", "", "ID of the blueprint to instantiate")
	_ = cmd.MarkFlagRequired("blueprint")
	return cmd
}

// editResult is the JSON shape of a field edit.
type editResult struct {
	Applied  bool           `json:"applied"`
	Contract types.Contract `json:"contract"`
}

func newContractSetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <field>=<value>...",
		Short: "Set contract field values",
		Long: `Set one or more field values on a contract. Checkbox fields take
true/false (or yes/no); date fields take YYYY-MM-DD. All values are
applied together or not at all.

Edits to a locked or revoked contract are ignored.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			assignments, err := parseAssignments(args[1:])
			if err != nil {
				return userErr(err)
			}
			return s.withState(func(st *app.State) error {
				current, err := st.GetContract(id)
				if err != nil {
					return check(err)
				}
				c, applied, err := applyAssignments(st, current, assignments)
				if err != nil {
					return check(err)
				}
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), editResult{Applied: applied, Contract: c})
				}
				if !applied {
					fmt.Fprintf(cmd.OutOrStdout(), "Contract %s is %s; edit ignored\n", id, c.Status)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Contract %s updated\n", id)
				return nil
			})
		},
	}
}

type assignment struct {
	fieldID string
	raw     string
}

func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		fieldID, raw, ok := strings.Cut(arg, "=")
		if !ok || fieldID == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected field=value)", arg)
		}
		if seen[fieldID] {
			return nil, fmt.Errorf("field %q assigned twice", fieldID)
		}
		seen[fieldID] = true
		out = append(out, assignment{fieldID: fieldID, raw: raw})
	}
	return out, nil
}

// applyAssignments parses each raw value against the field's type and
// applies the lot. A single assignment edits one field; several replace
// the whole value list in one write.
func applyAssignments(st *app.State, c types.Contract, as []assignment) (types.Contract, bool, error) {
	parsed := make(map[string]types.FieldValue, len(as))
	for _, a := range as {
		fv, ok := c.FieldValue(a.fieldID)
		if !ok {
			return types.Contract{}, false, types.Invalid("field_id", fmt.Errorf("%w: %q", types.ErrFieldNotFound, a.fieldID))
		}
		v, err := fv.Type.ParseValue(a.raw)
		if err != nil {
			return types.Contract{}, false, types.Invalid("fields."+a.fieldID, err)
		}
		parsed[a.fieldID] = v
	}

	if len(as) == 1 {
		return st.SetContractField(c.ContractID, as[0].fieldID, parsed[as[0].fieldID])
	}
	values := make([]types.ContractFieldValue, len(c.FieldValues))
	for i, fv := range c.FieldValues {
		if v, ok := parsed[fv.FieldID]; ok {
			fv.Value = v
		}
		values[i] = fv
	}
	return st.UpdateContractFields(c.ContractID, values)
}

func newContractTransitionCmd(s *session, use, short string,
	step func(*app.State, string) (types.Contract, bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withState(func(st *app.State) error {
				c, ok, err := step(st, args[0])
				if err != nil {
					return check(err)
				}
				if !ok {
					return userErr(fmt.Errorf("cannot %s contract %s: status is %s", use, c.ContractID, c.Status))
				}
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), c)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Contract %s is now %s\n", c.ContractID, c.Status)
				return nil
			})
		},
	}
}

func newContractDeleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withState(func(st *app.State) error {
				if err := st.DeleteContract(args[0]); err != nil {
					return check(err)
				}
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Contract %s deleted\n", args[0])
				return nil
			})
		},
	}
}
