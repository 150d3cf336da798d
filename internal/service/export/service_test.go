package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lankaspa/portal/internal/model"
)

func TestSpasWorkbook(t *testing.T) {
	svc := NewService()

	data, err := svc.Spas([]model.Spa{
		{
			ID: "spa-1", Name: "Serenity Spa", OwnerName: "Nimal Fernando",
			OwnerEmail: "nimal@serenity.lk", OwnerPhone: "+94771234567",
			City: "Colombo", Category: "ayurveda", Status: model.SpaStatusApproved,
			Timestamps: model.Timestamps{CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Spas")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "Serenity Spa", rows[1][1])
	assert.Equal(t, "approved", rows[1][7])
	assert.Equal(t, "2025-03-01", rows[1][8])
}

func TestTherapistsWorkbookEmptyList(t *testing.T) {
	svc := NewService()

	data, err := svc.Therapists(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Therapists")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "NIC", rows[0][2])
}
