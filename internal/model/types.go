package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// EstimateRecord is the stored summary of one aggregate run. Individual trial
// outcomes are never persisted.
type EstimateRecord struct {
	VersionedRecord
	ID              string    `json:"id"`
	SweepID         string    `json:"sweep_id,omitempty"`
	CreatedAtUTC    string    `json:"created_at_utc"`
	TrackSize       int       `json:"track_size"`
	Farmer          string    `json:"farmer"`
	Fox             string    `json:"fox"`
	TrialsPerWorker int       `json:"trials_per_worker"`
	Workers         int       `json:"workers"`
	StepCap         int       `json:"step_cap"`
	Seed            int64     `json:"seed"`
	Mean            float64   `json:"mean"`
	WorkerMeans     []float64 `json:"worker_means"`
	StdErr          float64   `json:"std_err"`
	MaxSteps        int       `json:"max_steps"`
	ElapsedMillis   int64     `json:"elapsed_ms"`
}
