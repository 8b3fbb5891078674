package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"

	"huml.sh/huml"
)

var (
	errReadInput   = errors.New("read input")
	errWriteOutput = errors.New("write output")
)

// readInput reads path, or stdin if path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %w", errReadInput, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errReadInput, path, err)
	}
	return data, nil
}

// runFmt parses path as HUML and writes its canonical re-serialization to w.
func runFmt(logger *slog.Logger, w io.Writer, path string) error {
	src, err := readInput(path)
	if err != nil {
		return err
	}
	doc, err := huml.Parse(src)
	if err != nil {
		return err
	}
	logger.Debug("parsed document", "path", path, "has_version", doc.HasVersion)
	out, err := huml.Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("%w: %w", errWriteOutput, err)
	}
	return nil
}

// runCheck parses path and reports the first structured error, if any.
func runCheck(logger *slog.Logger, w io.Writer, path string) error {
	src, err := readInput(path)
	if err != nil {
		return err
	}
	if _, err := huml.Parse(src); err != nil {
		var herr *huml.Error
		if errors.As(err, &herr) {
			fmt.Fprintf(w, "%s: %s\n", path, herr.Error())
			logger.Error("invalid document", "path", path, "kind", herr.Kind.String())
			return err
		}
		return err
	}
	fmt.Fprintf(w, "%s: ok\n", path)
	return nil
}

// runConvert decodes path in the given source format and writes canonical
// HUML to w.
func runConvert(logger *slog.Logger, w io.Writer, path string, format sourceFormat) error {
	src, err := readInput(path)
	if err != nil {
		return err
	}
	generic, err := decodeGeneric(format, src)
	if err != nil {
		return err
	}
	root, err := genericToValue(generic)
	if err != nil {
		return fmt.Errorf("convert %s: %w", format, err)
	}
	logger.Debug("converted document", "path", path, "from", string(format))
	out, err := huml.Marshal(huml.Document{Root: root})
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("%w: %w", errWriteOutput, err)
	}
	return nil
}

// runEmit parses path as HUML and re-encodes it in the given output format,
// the inverse of runConvert.
func runEmit(logger *slog.Logger, w io.Writer, path string, format sourceFormat) error {
	src, err := readInput(path)
	if err != nil {
		return err
	}
	doc, err := huml.Parse(src)
	if err != nil {
		return err
	}
	logger.Debug("emitting document", "path", path, "to", string(format))
	generic := valueToGeneric(doc.Root)

	var out []byte
	switch format {
	case formatYAML:
		out, err = yaml.Marshal(generic)
	case formatTOML:
		out, err = toml.Marshal(generic)
	case formatJSON:
		out, err = json.MarshalIndent(generic, "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("%w: %w", errWriteOutput, err)
	}
	return nil
}
