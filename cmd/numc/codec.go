package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// matrixFile is the on-disk matrix document. A bare 2-D list is accepted
// on input as well.
type matrixFile struct {
	Rows [][]float64 `yaml:"rows,flow"`
}

var errEmptyDocument = errors.New("empty matrix document")

// decodeMatrix parses a YAML or JSON matrix document.
func decodeMatrix(data []byte) ([][]float64, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errEmptyDocument
	}

	node := doc.Content[0]
	switch node.Kind {
	case yaml.MappingNode:
		var f matrixFile
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		if f.Rows == nil {
			return nil, fmt.Errorf("line %d: missing rows key", node.Line)
		}
		return f.Rows, nil
	case yaml.SequenceNode:
		var rows [][]float64
		if err := node.Decode(&rows); err != nil {
			return nil, err
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("line %d: matrix must be a mapping or a 2-D list", node.Line)
	}
}

// readMatrix loads a matrix document from path, or from in when path is "-".
func readMatrix(path string, in io.Reader) ([][]float64, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	rows, err := decodeMatrix(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// encodeMatrix writes rows as a matrixFile document.
func encodeMatrix(w io.Writer, rows [][]float64) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(matrixFile{Rows: rows}); err != nil {
		return err
	}
	return enc.Close()
}
