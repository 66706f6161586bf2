package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/tsdoc/internal/doc"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// writeDocs renders documented files in the given format.
func writeDocs(w io.Writer, format string, files []*doc.FileDocs) error {
	switch format {
	case FormatText:
		first := true
		for _, fd := range files {
			if len(fd.Nodes) == 0 {
				continue
			}
			if !first {
				fmt.Fprintln(w)
			}
			first = false
			if err := doc.FormatText(w, fd.Nodes); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON, FormatYAML:
		return writeStructured(w, format, files)
	default:
		return fmt.Errorf("unsupported format %q (want text, json or yaml)", format)
	}
}

// writeStructured writes v as indented JSON or as YAML. YAML goes through
// JSON first so both formats share the camelCase field names.
func writeStructured(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if format == FormatJSON {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("failed to convert output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("failed to write yaml: %w", err)
	}
	return enc.Close()
}
