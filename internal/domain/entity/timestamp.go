package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Formatos aceptados al decodificar created_at: ISO-8601 y el CURRENT_TIMESTAMP de SQL.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Timestamp fecha ISO-8601 que tolera los formatos emitidos por distintos backends.
type Timestamp struct {
	time.Time
}

// MarshalJSON serializa en RFC 3339 UTC con milisegundos.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
}

// UnmarshalJSON acepta RFC 3339 y "YYYY-MM-DD HH:MM:SS" (asumido UTC).
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("created_at: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTimestamp interpreta s con los formatos aceptados.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("created_at: formato no reconocido %q", s)
}
