package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/condo-portal/ledger/internal/integration/entrypoint/dto"
)

// render writes v as JSON or YAML, or calls table for the human readable form.
// YAML keys follow the JSON field names of the API responses.
func render(out io.Writer, format string, v interface{}, table func(w *tabwriter.Writer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		return writeYAML(out, v)
	case "table", "":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		table(w)
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func writeYAML(out io.Writer, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	// JSON is valid YAML; decoding into a node keeps the field order.
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return err
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		blockStyle(child)
	}
}

func writeWarnings(w io.Writer, warnings []dto.RecordWarningResponse) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "REGISTROS EXCLUIDOS")
	for _, warning := range warnings {
		fmt.Fprintf(w, "%s\t%s\t%s\n", warning.Kind, warning.SourceID, warning.Reason)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func appliedColumn(applied *bool) string {
	if applied == nil {
		return ""
	}
	if *applied {
		return "sí"
	}
	return "no"
}
