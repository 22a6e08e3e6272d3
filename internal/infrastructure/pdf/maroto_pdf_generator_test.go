package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/entity-registry/internal/domain/entity"
)

func TestGenerateRegisterPDF(t *testing.T) {
	gst := "1234"
	g := &MarotoPDFGenerator{now: func() time.Time { return time.Date(2025, 1, 2, 15, 4, 0, 0, time.UTC) }}
	list := []*entity.Entity{
		{
			ID: 1, Name: "Acme Co", PAN: "ABCDE1234F", GST: &gst, Phone: "9876543210",
			Address: "1 Main St", District: "Delhi",
			CreatedAt: entity.Timestamp{Time: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)},
			Managers:  []entity.Manager{{Name: "Jane Doe", Phone: "9876543211"}},
		},
		{ID: 2, Name: "Beta", PAN: "XYZ", Phone: "9876543212", Address: "2 Side St", District: "Pune"},
	}

	raw, err := g.GenerateRegisterPDF(context.Background(), list)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
}

func TestGenerateRegisterPDF_Vacio(t *testing.T) {
	raw, err := NewMarotoPDFGenerator().GenerateRegisterPDF(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
}

func TestGenerateRegisterPDF_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMarotoPDFGenerator().GenerateRegisterPDF(ctx, []*entity.Entity{{ID: 1, Name: "Acme"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTextosDeTarjeta(t *testing.T) {
	gst := "1234"
	empty := ""
	assert.Equal(t, "1234", gstText(&gst))
	assert.Equal(t, "N/A", gstText(&empty))
	assert.Equal(t, "N/A", gstText(nil))

	assert.Equal(t, "-", createdText(entity.Timestamp{}))
	assert.Equal(t, "Jan 2, 2025, 03:04 PM",
		createdText(entity.Timestamp{Time: time.Date(2025, 1, 2, 15, 4, 0, 0, time.UTC)}))
}
