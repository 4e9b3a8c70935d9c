package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"sigs.k8s.io/yaml"
)

const (
	outputRaw  = "raw"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutputFormat(format string) error {
	switch format {
	case outputRaw, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("invalid output format %q. Expected raw, json or yaml", format)
	}
}

// selectResult extracts the value at path from a JSON body.
func selectResult(body []byte, path string) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("cannot select %q: result is not JSON", path)
	}
	r := gjson.GetBytes(body, path)
	if !r.Exists() {
		return nil, fmt.Errorf("no value matches %q", path)
	}
	return []byte(r.Raw), nil
}

// rawJSON embeds body as-is into JSON output when it is valid JSON, and as a
// string otherwise.
func rawJSON(body []byte) any {
	if gjson.ValidBytes(body) {
		return json.RawMessage(body)
	}
	return string(body)
}

// writeResult prints body in the requested format. Bodies that are not JSON
// are printed unchanged whatever the format.
func writeResult(w io.Writer, body []byte, format string) error {
	var out []byte
	switch {
	case format == outputRaw || !gjson.ValidBytes(body):
		out = body
	case format == outputJSON:
		var buf bytes.Buffer
		if err := indentJSON(&buf, body); err != nil {
			return err
		}
		out = buf.Bytes()
	case format == outputYAML:
		y, err := yaml.JSONToYAML(body)
		if err != nil {
			return fmt.Errorf("unable to convert result to yaml: %w", err)
		}
		out = y
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

func indentJSON(buf *bytes.Buffer, body []byte) error {
	if err := json.Indent(buf, body, "", "  "); err != nil {
		return fmt.Errorf("unable to format result: %w", err)
	}
	return nil
}
