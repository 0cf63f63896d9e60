package table

import (
	"math"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paxboard/domain/core"
	"paxboard/domain/dataset"
	"paxboard/domain/passenger"
)

func scenarioRecords() []passenger.Record {
	return []passenger.Record{
		{ID: 1, Age: 22, Fare: 7.25, Sex: "Male", Survived: false, Class: 3, Name: "Braund", SiblingsSpouses: 1},
		{ID: 2, Age: 38, Fare: 71.28, Sex: "Female", Survived: true, Class: 1, Name: "Cumings", SiblingsSpouses: 1},
	}
}

func TestFromRecordsRoundTrip(t *testing.T) {
	records := scenarioRecords()
	records[0].Fare = math.NaN()

	tbl := FromRecords(records)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, passenger.Schema().Names(), tbl.Names())

	back, err := tbl.Passengers()
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.True(t, math.IsNaN(back[0].Fare))
	assert.Equal(t, records[1], back[1])
}

func TestFromRawTypesColumns(t *testing.T) {
	schema, err := dataset.NewSchema(
		dataset.Column{Name: "Age", Type: dataset.TypeNumeric},
		dataset.Column{Name: "Sex", Type: dataset.TypeCategorical},
	)
	require.NoError(t, err)

	raw := dataset.NewRawTable([]string{"Sex", "Age", "Extra"}, [][]string{
		{"male", "22", "x"},
		{"female", "", "y"},
		{"NA", "NA", "z"},
	})
	tbl, err := FromRaw(raw, schema)
	require.NoError(t, err)

	assert.Equal(t, []string{"Age", "Sex"}, tbl.Names())

	ages, err := tbl.Floats("Age")
	require.NoError(t, err)
	assert.Equal(t, 22.0, ages[0])
	assert.True(t, math.IsNaN(ages[1]))
	assert.True(t, math.IsNaN(ages[2]))

	sexes, err := tbl.Values("Sex")
	require.NoError(t, err)
	assert.Equal(t, []string{"male", "female", ""}, sexes)
}

func TestFromRawMissingColumn(t *testing.T) {
	schema := passenger.Schema()
	raw := dataset.NewRawTable([]string{"Survived"}, [][]string{{"1"}})

	_, err := FromRaw(raw, schema)
	assert.True(t, core.IsSchemaError(err))

	_, err = FromRaw(dataset.NewRawTable([]string{"Survived"}, nil), schema)
	assert.True(t, core.IsSchemaError(err))
}

func TestHead(t *testing.T) {
	tbl := FromRecords(scenarioRecords())

	assert.Equal(t, 1, tbl.Head(1).Len())
	assert.Equal(t, 2, tbl.Head(5).Len())
	assert.Equal(t, 0, tbl.Head(0).Len())
	assert.Equal(t, 2, tbl.Len(), "head must not modify the source")
}

func TestClampRows(t *testing.T) {
	assert.Equal(t, 1, ClampRows(0, 10))
	assert.Equal(t, 5, ClampRows(5, 10))
	assert.Equal(t, 10, ClampRows(50, 10))
	assert.Equal(t, 0, ClampRows(5, 0))
}

func TestCategoriesOrdering(t *testing.T) {
	records := append(scenarioRecords(), passenger.Record{ID: 3, Age: 30, Sex: "Male", Class: 2, Survived: true})
	tbl := FromRecords(records)

	classes, err := tbl.Categories(passenger.ColClass)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, classes)

	sexes, err := tbl.Categories(passenger.ColSex)
	require.NoError(t, err)
	assert.Equal(t, []string{"Male", "Female"}, sexes)

	_, err = tbl.Categories("Cabin")
	assert.ErrorIs(t, err, core.ErrUnknownColumn)
}

func TestFloatsRejectsNonNumeric(t *testing.T) {
	tbl := FromRecords(scenarioRecords())
	_, err := tbl.Floats(passenger.ColSex)
	assert.ErrorIs(t, err, core.ErrUnknownColumn)
}

func TestRowsFormatting(t *testing.T) {
	tbl := FromRecords(scenarioRecords())
	rows := tbl.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2", "Yes", "1", "Cumings", "Female", "38", "1", "71.28", ""}, rows[1])
	assert.Equal(t, tbl.Fingerprint(), FromRecords(scenarioRecords()).Fingerprint())
}

func TestWithColumn(t *testing.T) {
	tbl := FromRecords(scenarioRecords())

	updated, err := tbl.WithColumn(series.New([]float64{30, 40}, series.Float, passenger.ColAge))
	require.NoError(t, err)
	ages, err := updated.Floats(passenger.ColAge)
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 40}, ages)

	original, err := tbl.Floats(passenger.ColAge)
	require.NoError(t, err)
	assert.Equal(t, []float64{22, 38}, original)

	_, err = tbl.WithColumn(series.New([]string{"a", "b"}, series.String, passenger.ColAge))
	assert.Error(t, err)

	_, err = tbl.WithColumn(series.New([]float64{1}, series.Float, passenger.ColAge))
	assert.Error(t, err)

	_, err = tbl.WithColumn(series.New([]float64{1, 2}, series.Float, "Cabin"))
	assert.ErrorIs(t, err, core.ErrUnknownColumn)
}
