package inventory

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesWellFormedRows(t *testing.T) {
	csvData := strings.Join([]string{
		"car_id,model,sales_price,region,kilometers,color,promotion",
		"car-1,Sedan LX,185000,north,42000,red,",
		"car-2,SUV GT,310000.50,south,15500,black,summer",
	}, "\n")

	loader := NewLoader(zerolog.Nop())
	items, err := loader.Load(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "car-1", items[0].CarID)
	assert.Equal(t, "Sedan LX", items[0].Model)
	assert.Equal(t, 185000.0, items[0].SalesPrice)
	assert.Equal(t, 42000, items[0].Kilometers)
	assert.Equal(t, "north", items[0].Region)

	assert.Equal(t, 310000.50, items[1].SalesPrice)
	assert.Equal(t, "summer", items[1].Promotion)
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	csvData := strings.Join([]string{
		"car_id,model,sales_price",
		"car-1,Sedan,185000",
		",Missing ID,200000",
		"car-3,Bad Price,not-a-number",
		"car-4,Negative,-5",
		"car-5,OK,240000",
	}, "\n")

	loader := NewLoader(zerolog.Nop())
	items, err := loader.Load(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "car-1", items[0].CarID)
	assert.Equal(t, "car-5", items[1].CarID)
}

func TestLoadResolvesColumnsByName(t *testing.T) {
	// Reordered columns with an extra one in the middle.
	csvData := strings.Join([]string{
		"sales_price,warehouse,model,car_id",
		"185000,MX-01,Sedan,car-1",
	}, "\n")

	loader := NewLoader(zerolog.Nop())
	items, err := loader.Load(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "car-1", items[0].CarID)
	assert.Equal(t, 185000.0, items[0].SalesPrice)
}

func TestLoadRejectsMissingRequiredColumn(t *testing.T) {
	loader := NewLoader(zerolog.Nop())
	_, err := loader.Load(strings.NewReader("car_id,model\ncar-1,Sedan"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sales_price")
}
