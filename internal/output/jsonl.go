package output

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/colorfulnotion/jamhbench/internal/bench"
)

// JSONLSink writes one IterationData JSON object per line, for machine
// consumption or as input to internal/store's baseline history.
type JSONLSink struct {
	mu sync.Mutex
	w  io.Writer
	enc *json.Encoder
}

// NewJSONLSink returns a JSONLSink writing to w.
func NewJSONLSink(w io.Writer) *JSONLSink {
	return &JSONLSink{w: w, enc: json.NewEncoder(w)}
}

func (s *JSONLSink) IterationResult(d bench.IterationData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(d)
}

func (s *JSONLSink) Exception(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(map[string]string{"exception": err.Error()})
}

func (s *JSONLSink) VerbosePrint(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(map[string]string{"note": msg})
}
