package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/folio/internal/app"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// Default layout for fields given without a position: one column, one row
// per field.
const (
	defaultFieldX    = 30
	defaultFieldY    = 20
	defaultRowHeight = 100
)

// blueprintFile is the YAML document accepted by --file.
type blueprintFile struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Fields      []types.BlueprintField `yaml:"fields"`
}

func newBlueprintCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "blueprint",
		Aliases: []string{"bp"},
		Short:   "Manage contract blueprints",
	}
	cmd.AddCommand(
		newBlueprintListCmd(s),
		newBlueprintShowCmd(s),
		newBlueprintCreateCmd(s),
		newBlueprintUpdateCmd(s),
		newBlueprintDeleteCmd(s),
	)
	return cmd
}

func newBlueprintListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List blueprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withState(func(st *app.State) error {
				bps := st.ListBlueprints()
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), bps)
				}
				printBlueprintList(cmd.OutOrStdout(), bps)
				return nil
			})
		},
	}
}

func newBlueprintShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display a blueprint and its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withState(func(st *app.State) error {
				bp, err := st.GetBlueprint(args[0])
				if err != nil {
					return check(err)
				}
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), bp)
				}
				printBlueprint(cmd.OutOrStdout(), bp)
				return nil
			})
		},
	}
}

func newBlueprintCreateCmd(s *session) *cobra.Command {
	var (
		name        string
		description string
		fieldFlags  []string
		file        string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a blueprint",
		Long: `Create a blueprint from flags or from a YAML file.

Each --field is id:type:label[:required][@x,y]. Types are text, date,
signature, and checkbox. Fields without a position are laid out in a
single column.

Example:
  folio blueprint create --name "Consulting" \
    --field client:text:Client:required \
    --field start:date:"Start Date"@280,20 \
    --field sign:signature:Signature:required
  folio blueprint create --file consulting.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var def blueprintFile
			if file != "" {
				if cmd.Flags().Changed("field") {
					return userErr(fmt.Errorf("--file and --field cannot be combined"))
				}
				var err error
				if def, err = readBlueprintFile(file); err != nil {
					return err
				}
			} else {
				fields, err := parseFieldFlags(fieldFlags)
				if err != nil {
					return userErr(err)
				}
				def.Fields = fields
			}
			if cmd.Flags().Changed("name") {
				def.Name = name
			}
			if cmd.Flags().Changed("description") {
				def.Description = description
			}

			return s.withState(func(st *app.State) error {
				bp, err := st.CreateBlueprint(def.Name, def.Description, def.Fields)
				if err != nil {
					return check(err)
				}
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), bp)
				}
				fmt.Fprintln(cmd.OutOrStdout(), bp.BlueprintID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "blueprint name")
	cmd.Flags().StringVar(&description, "description", "", "blueprint description")
	cmd.Flags().StringArrayVar(&fieldFlags, "field", nil, "field as id:type:label[:required][@x,y] (repeatable)")
	cmd.Flags().StringVar(&file, "file", "", "read the blueprint from a YAML file")
	return cmd
}

func newBlueprintUpdateCmd(s *session) *cobra.Command {
	var (
		name        string
		description string
		fieldFlags  []string
		file        string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a blueprint's name, description, or fields",
		Long: `Update a blueprint. Only the attributes given are changed; --field or
--file replaces the whole field list. Contracts already created from the
blueprint are not affected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch types.BlueprintPatch
			if file != "" {
				def, err := readBlueprintFile(file)
				if err != nil {
					return err
				}
				patch.Name = &def.Name
				patch.Description = &def.Description
				patch.Fields = def.Fields
			}
			if cmd.Flags().Changed("field") {
				fields, err := parseFieldFlags(fieldFlags)
				if err != nil {
					return userErr(err)
				}
				patch.Fields = fields
			}
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}

			return s.withState(func(st *app.State) error {
				bp, err := st.UpdateBlueprint(args[0], patch)
				if err != nil {
					return check(err)
				}
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), bp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Blueprint %s updated\n", bp.BlueprintID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringArrayVar(&fieldFlags, "field", nil, "replacement field as id:type:label[:required][@x,y] (repeatable)")
	cmd.Flags().StringVar(&file, "file", "", "read the replacement blueprint from a YAML file")
	return cmd
}

func newBlueprintDeleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a blueprint (its contracts are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withState(func(st *app.State) error {
				if err := st.DeleteBlueprint(args[0]); err != nil {
					return check(err)
				}
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Blueprint %s deleted\n", args[0])
				return nil
			})
		},
	}
}

// readBlueprintFile parses a blueprint YAML document.
func readBlueprintFile(path string) (blueprintFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return blueprintFile{}, userErr(fmt.Errorf("read blueprint file: %w", err))
	}
	var def blueprintFile
	if err := yaml.Unmarshal(data, &def); err != nil {
		return blueprintFile{}, userErr(fmt.Errorf("parse blueprint file %s: %w", path, err))
	}
	return def, nil
}

// parseFieldFlags parses repeated --field values. The result is nil only
// when flags is empty.
func parseFieldFlags(flags []string) ([]types.BlueprintField, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	fields := make([]types.BlueprintField, 0, len(flags))
	for i, raw := range flags {
		f, err := parseFieldFlag(raw, i)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// parseFieldFlag parses id:type:label[:required][@x,y]. index places a
// field that has no explicit position.
func parseFieldFlag(raw string, index int) (types.BlueprintField, error) {
	f := types.BlueprintField{
		Position: types.Position{X: defaultFieldX, Y: defaultFieldY + float64(index*defaultRowHeight)},
	}

	body := raw
	if at := strings.LastIndex(raw, "@"); at >= 0 {
		if pos, ok := parsePosition(raw[at+1:]); ok {
			f.Position = pos
			body = raw[:at]
		}
	}

	parts := strings.Split(body, ":")
	if len(parts) < 3 {
		return types.BlueprintField{}, fmt.Errorf("field %q: expected id:type:label[:required][@x,y]", raw)
	}
	if last := len(parts) - 1; len(parts) > 3 && parts[last] == "required" {
		f.Required = true
		parts = parts[:last]
	}
	f.ID = parts[0]
	f.Type = types.FieldType(parts[1])
	f.Label = strings.Join(parts[2:], ":")
	return f, nil
}

func parsePosition(s string) (types.Position, bool) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return types.Position{}, false
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return types.Position{}, false
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return types.Position{}, false
	}
	return types.Position{X: x, Y: y}, true
}
