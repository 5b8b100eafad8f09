package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"foxhunt/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// Stamp fills in the current versions on a record that has none.
func Stamp(record model.EstimateRecord) model.EstimateRecord {
	if record.SchemaVersion == 0 {
		record.SchemaVersion = CurrentSchemaVersion
	}
	if record.CodecVersion == 0 {
		record.CodecVersion = CurrentCodecVersion
	}
	return record
}

func EncodeEstimate(record model.EstimateRecord) ([]byte, error) {
	if err := checkVersion(record.VersionedRecord); err != nil {
		return nil, err
	}
	return json.Marshal(record)
}

func DecodeEstimate(data []byte) (model.EstimateRecord, error) {
	var record model.EstimateRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.EstimateRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.EstimateRecord{}, err
	}
	return record, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return fmt.Errorf("%w: schema=%d codec=%d", ErrVersionMismatch, v.SchemaVersion, v.CodecVersion)
	}
	return nil
}
