package utils

import (
	"bytes"
	"encoding/json"
)

// PrettyJson serializa o valor com indentação por tabulação.
// Se o valor já for []byte, apenas reindenta.
func PrettyJson(in any) (string, error) {
	buffer, ok := in.([]byte)
	if !ok {
		var err error
		buffer, err = json.Marshal(in)
		if err != nil {
			return "", err
		}
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buffer, "", "\t"); err != nil {
		return "", err
	}

	return out.String(), nil
}
