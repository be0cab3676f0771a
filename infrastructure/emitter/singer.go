package emitter

import (
	"context"
	"io"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
	"github.com/vfg2006/appsflyer-master-sync/internal/schema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	MessageTypeSchema = "SCHEMA"
	MessageTypeRecord = "RECORD"
)

type SchemaMessage struct {
	Type          string         `json:"type"`
	Stream        string         `json:"stream"`
	Schema        map[string]any `json:"schema"`
	KeyProperties []string       `json:"key_properties"`
}

type RecordMessage struct {
	Type          string        `json:"type"`
	Stream        string        `json:"stream"`
	Record        domain.Record `json:"record"`
	TimeExtracted string        `json:"time_extracted"`
}

// SingerEmitter escreve o stream master como mensagens Singer, uma por linha.
// A mensagem SCHEMA sai uma única vez, antes do primeiro RECORD.
type SingerEmitter struct {
	mu            sync.Mutex
	encoder       *jsoniter.Encoder
	keyProperties []string
	schemaWritten bool
	clock         func() time.Time
}

func NewSingerEmitter(w io.Writer, groupings string) *SingerEmitter {
	return &SingerEmitter{
		encoder:       json.NewEncoder(w),
		keyProperties: schema.PrimaryKeys(groupings),
		clock:         time.Now,
	}
}

// WriteSchema emite a mensagem SCHEMA caso ainda não tenha sido emitida
func (e *SingerEmitter) WriteSchema() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.writeSchema()
}

func (e *SingerEmitter) WriteRecords(ctx context.Context, window domain.DateWindow, records []domain.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.writeSchema(); err != nil {
		return err
	}

	extracted := e.clock().UTC().Format(time.RFC3339)
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg := RecordMessage{
			Type:          MessageTypeRecord,
			Stream:        schema.StreamName,
			Record:        record,
			TimeExtracted: extracted,
		}
		if err := e.encoder.Encode(msg); err != nil {
			return errors.Wrapf(err, "erro ao emitir registro da janela %s", window.Start.Format(time.DateOnly))
		}
	}

	return nil
}

func (e *SingerEmitter) writeSchema() error {
	if e.schemaWritten {
		return nil
	}

	msg := SchemaMessage{
		Type:          MessageTypeSchema,
		Stream:        schema.StreamName,
		Schema:        schema.JSONSchema(schema.MasterReport),
		KeyProperties: e.keyProperties,
	}
	if err := e.encoder.Encode(msg); err != nil {
		return errors.Wrap(err, "erro ao emitir schema")
	}

	e.schemaWritten = true
	return nil
}
