package decode

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/salespipe-dev/salespipe/internal/model"
)

// ErrUndecodable means no candidate encoding could decode the input.
// With Latin-1 in the candidate list this is practically unreachable,
// but the contract keeps it as the fatal path.
var ErrUndecodable = errors.New("no candidate encoding could decode input")

type candidate struct {
	name   string
	decode func([]byte) (string, error)
}

// Candidates are tried in order; the first full decode wins. UTF-8 goes
// first as the preferred modern encoding. Latin-1 before CP1252 is a
// heuristic tie-break between two total byte decodings, not a semantic
// guarantee.
var candidates = []candidate{
	{"utf-8", decodeUTF8},
	{"latin-1", charmapDecoder(charmap.ISO8859_1)},
	{"cp1252", charmapDecoder(charmap.Windows1252)},
}

// Decode converts raw file bytes to text by trial decoding. It returns the
// decoded text and the name of the encoding that was accepted.
func Decode(data []byte) (text, encoding string, err error) {
	for _, c := range candidates {
		text, err := c.decode(data)
		if err == nil {
			return text, c.name, nil
		}
	}
	return "", "", ErrUndecodable
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("invalid UTF-8")
	}
	return string(data), nil
}

func charmapDecoder(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		out, err := cm.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

// headerPrefix identifies the header row of a sales file.
const headerPrefix = "transactionid|"

// ReadLines reads and decodes a sales file, returning its non-blank,
// non-header lines with their 0-based source line numbers. A missing or
// unreadable file is fatal for the run.
func ReadLines(path string) ([]model.RawLine, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading sales data: %w", err)
	}

	text, encoding, err := Decode(data)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", path, err)
	}

	var lines []model.RawLine
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), headerPrefix) {
			continue
		}
		lines = append(lines, model.RawLine{Number: i, Text: line})
	}
	return lines, encoding, nil
}
