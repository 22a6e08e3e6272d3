package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/entity-registry/internal/application/form"
	"github.com/jhoicas/entity-registry/internal/application/ports"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
	"github.com/jhoicas/entity-registry/internal/domain/repository"
	"github.com/jhoicas/entity-registry/pkg/logger"
)

// Failure fila rechazada con el mensaje mostrado por el formulario.
type Failure struct {
	Line    int
	Message string
}

// Result resumen de la carga.
type Result struct {
	Created  int
	Failures []Failure
}

var columns = []string{"name", "pan", "gst", "phone", "address", "district", "managers"}

// seed registra cada fila del CSV a través del formulario de alta.
func seed(ctx context.Context, raw []byte, store repository.EntityStore, log *logger.Logger) (Result, error) {
	var res Result
	r := csv.NewReader(decode(raw))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		return res, err
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range columns[:len(columns)-1] {
		if _, ok := idx[c]; !ok {
			return res, fmt.Errorf("falta la columna %q", c)
		}
	}

	var last string
	notifier := ports.NotifierFunc(func(n ports.Notice) {
		if n.Level == ports.NoticeError {
			last = n.Message
		}
	})
	ctrl := form.NewController(store, notifier, log)

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.Failures = append(res.Failures, Failure{Line: perr.Line, Message: perr.Err.Error()})
				continue
			}
			return res, err
		}
		line, _ := r.FieldPos(0)
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		ctrl.Reset()
		for _, field := range form.Fields {
			_, _ = ctrl.SetField(field, get(field))
		}
		for _, m := range parseManagers(get("managers")) {
			ctrl.AddManager(&m)
		}
		last = ""
		if _, err := ctrl.Submit(ctx); err != nil {
			msg := last
			if msg == "" {
				msg = err.Error()
			}
			res.Failures = append(res.Failures, Failure{Line: line, Message: msg})
			continue
		}
		res.Created++
	}
	log.Info().Int("created", res.Created).Int("rejected", len(res.Failures)).Msg("carga finalizada")
	return res, nil
}

// decode devuelve un lector UTF-8: si el contenido no es UTF-8 válido se asume ISO-8859-1.
func decode(raw []byte) io.Reader {
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

// parseManagers interpreta "Nombre:Teléfono;Nombre:Teléfono".
func parseManagers(s string) []entity.Manager {
	var out []entity.Manager
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, phone, _ := strings.Cut(part, ":")
		out = append(out, entity.Manager{Name: strings.TrimSpace(name), Phone: strings.TrimSpace(phone)})
	}
	return out
}
