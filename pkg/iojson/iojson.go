// Package iojson handles JSON input and output for CLI commands: decoding
// payloads from a file flag or piped stdin, and writing indented JSON to a
// command's output stream.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// WriteWith marshals obj with indentation and writes it to w followed by a
// newline. Marshal failures are reported as a JSON error object on ew so
// consumers of w always receive valid JSON or nothing.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		// json.Marshal on plain strings cannot fail, so the fallback
		// blob is always well-formed
		msg, _ := json.Marshal(err.Error())
		_, werr := fmt.Fprintf(ew, `{"error":%s}`+"\n", msg)
		return werr
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write calls WriteWith with [os.Stdout] and [os.Stderr].
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}

// FileReader decodes a JSON value of type T from a file named by a CLI flag,
// falling back to stdin when the flag is unset and stdin is piped.
type FileReader[T any] struct {
	path string
}

// Flag returns the string flag that names the input file. The zero value of
// the flag means "read stdin".
func (fr *FileReader[T]) Flag(name, usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        name,
		Usage:       usage,
		Destination: &fr.path,
	}
}

// Read decodes the input. It refuses to read stdin when stdin is an
// interactive terminal, since that almost always means the user forgot the
// file flag.
func (fr *FileReader[T]) Read() (T, error) {
	var input T

	var reader io.Reader
	if fr.path != "" {
		f, err := os.Open(fr.path)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	} else {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return input, fmt.Errorf("no input provided (stdin is a terminal); pass a file flag or pipe JSON")
		}
		reader = os.Stdin
	}

	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}
