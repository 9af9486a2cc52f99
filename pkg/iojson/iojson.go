// Package iojson writes command output as indented JSON.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Marshal encodes obj with the two-space indentation every command uses.
func Marshal(obj any) ([]byte, error) {
	return json.MarshalIndent(obj, "", "  ")
}

// WriteWith writes obj to w followed by a newline. When obj cannot be
// encoded, a JSON error object is written to ew instead so scripts reading
// w never see partial output.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := Marshal(obj)
	if err != nil {
		msg, _ := json.Marshal(err.Error())
		if _, werr := fmt.Fprintf(ew, "{\"message\":\"encode output\",\"error\":%s}\n", msg); werr != nil {
			return werr
		}
		return fmt.Errorf("encode output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}
