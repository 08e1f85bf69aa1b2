package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vamg1994/content-creation-vam/internal/pptx"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// printValue writes v as JSON or YAML, or calls text for the text format.
func printValue(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case formatText, "":
		return text(w)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (text, json, yaml)", format)
	}
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return pptx.WriteFile(path, data)
}

// writeText writes text output to path, or stdout when path is empty or "-".
func writeText(stdout io.Writer, path, text string) error {
	if path == "" || path == "-" {
		_, err := fmt.Fprintln(stdout, text)
		return err
	}
	return os.WriteFile(path, []byte(text+"\n"), 0o644)
}

func readFileString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
