package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/infrastructure/pdf"
)

func TestGenerateInventoryReport_ProducePDF(t *testing.T) {
	g := pdf.NewMarotoReportGenerator("")
	supplies := []*entity.Supply{
		{ID: "1", Name: "Printer Paper", Description: "A4", Quantity: 4, MinimumThreshold: 10},
		{ID: "2", Name: "Sticky Notes", Description: "3x3", Quantity: 30, MinimumThreshold: 5},
	}

	out, err := g.GenerateInventoryReport(supplies, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInventoryReport_SinSuministros(t *testing.T) {
	out, err := pdf.NewMarotoReportGenerator("Inventario").GenerateInventoryReport(nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, pdf.StatusLow, pdf.Status(&entity.Supply{Quantity: 5, MinimumThreshold: 5}))
	assert.Equal(t, pdf.StatusOK, pdf.Status(&entity.Supply{Quantity: 6, MinimumThreshold: 5}))
}
