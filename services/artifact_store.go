package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"medical-cost-api/config"
)

// ArtifactStore owns the serialized model and the frozen preprocessor at
// their well-known locations. The model is the single mutable artifact;
// replacement is atomic so a concurrent reader sees fully-old or
// fully-new, never a partial file. The preprocessor is never written.
type ArtifactStore struct {
	cfg config.ModelConfig
}

func NewArtifactStore(cfg config.ModelConfig) *ArtifactStore {
	return &ArtifactStore{cfg: cfg}
}

// LoadModel reads the current model artifact from disk.
func (s *ArtifactStore) LoadModel() (*LinearModel, error) {
	var m LinearModel
	if err := readJSON(s.cfg.ModelPath(), &m); err != nil {
		return nil, fmt.Errorf("%w: model at %s: %v", ErrArtifactUnavailable, s.cfg.ModelPath(), err)
	}
	if len(m.Coefficients) == 0 {
		return nil, fmt.Errorf("%w: model at %s has no coefficients", ErrArtifactUnavailable, s.cfg.ModelPath())
	}
	return &m, nil
}

// LoadPreprocessor reads the frozen preprocessor from disk.
func (s *ArtifactStore) LoadPreprocessor() (*Preprocessor, error) {
	var p Preprocessor
	if err := readJSON(s.cfg.PreprocessorPath(), &p); err != nil {
		return nil, fmt.Errorf("%w: preprocessor at %s: %v", ErrArtifactUnavailable, s.cfg.PreprocessorPath(), err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: preprocessor at %s: %v", ErrArtifactUnavailable, s.cfg.PreprocessorPath(), err)
	}
	return &p, nil
}

// SaveModel atomically replaces the model artifact: write to a temp file
// in the same directory, sync, then rename over the well-known path.
func (s *ArtifactStore) SaveModel(m *LinearModel) error {
	return writeJSONAtomic(s.cfg.ModelPath(), m)
}

// SaveMetrics writes the legacy metrics dump next to the model. Best
// effort only; the model_metadata table is the source of truth.
func (s *ArtifactStore) SaveMetrics(metrics EvalMetrics) {
	if err := writeJSONAtomic(s.cfg.MetricsPath(), metrics); err != nil {
		log.Printf("metrics dump failed (non-fatal): %v", err)
	}
}

func readJSON(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// Temp file must live on the same filesystem as the target for the
	// rename to be atomic.
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
