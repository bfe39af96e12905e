package docstore

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/msto63/dashscript/internal/dsl/executor"
)

// diagnosticsVersion prefixes every blob so the layout can change later
const diagnosticsVersion byte = 1

func encodeDiagnostics(diags []executor.Diagnostic) ([]byte, error) {
	if len(diags) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	buf.WriteByte(diagnosticsVersion)
	if err := msgpack.NewEncoder(&buf).Encode(diags); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeDiagnostics(blob []byte) ([]executor.Diagnostic, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	if blob[0] != diagnosticsVersion {
		return nil, errUnknownBlob(blob[0])
	}
	var diags []executor.Diagnostic
	if err := msgpack.NewDecoder(bytes.NewReader(blob[1:])).Decode(&diags); err != nil {
		return nil, err
	}
	return diags, nil
}

func errUnknownBlob(v byte) error {
	return fmt.Errorf("unknown diagnostics blob version %d", v)
}
