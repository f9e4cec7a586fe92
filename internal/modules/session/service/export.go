package service

import (
	"encoding/json"
	"fmt"
)

func marshalExport(envelope exportEnvelope) ([]byte, error) {
	blob, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return blob, nil
}

func unmarshalExport(blob []byte) (exportEnvelope, error) {
	envelope := exportEnvelope{}
	if err := json.Unmarshal(blob, &envelope); err != nil {
		return exportEnvelope{}, fmt.Errorf("decode import blob: %w", err)
	}
	return envelope, nil
}
