package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRides(t *testing.T) {
	frame, err := GenerateRides(500, "2024-01-15")
	require.NoError(t, err)

	assert.Equal(t, "rides", frame.Name)
	assert.Equal(t, 500, frame.NumRows())
	assert.Equal(t, RequiredColumns("rides"), frame.ColumnNames())

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	pickup := frame.Column("pickup_ts")
	dropoff := frame.Column("dropoff_ts")
	distance := frame.Column("distance_km")
	fare := frame.Column("fare_usd")
	status := frame.Column("status")

	for i := 0; i < frame.NumRows(); i++ {
		assert.False(t, pickup.Times[i].Before(day))
		assert.True(t, pickup.Times[i].Before(day.AddDate(0, 0, 1)))
		assert.True(t, dropoff.Times[i].After(pickup.Times[i]))
		assert.GreaterOrEqual(t, distance.Floats[i], 0.5)
		assert.Greater(t, fare.Floats[i], 0.0)
		assert.Contains(t, []string{"completed", "cancelled", "no_show"}, status.Strings[i])
	}
}

func TestGenerateRides_Deterministic(t *testing.T) {
	a, err := GenerateRides(200, "2024-01-15")
	require.NoError(t, err)
	b, err := GenerateRides(200, "2024-01-15")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateRides_Invalid(t *testing.T) {
	_, err := GenerateRides(100, "15/01/2024")
	assert.Error(t, err)

	_, err = GenerateRides(0, "2024-01-15")
	assert.Error(t, err)

	_, err = GenerateRides(-5, "2024-01-15")
	assert.Error(t, err)
}

func TestGenerate_UnknownDataset(t *testing.T) {
	_, err := Generate("unknown", 10, "2024-01-15")
	assert.ErrorContains(t, err, "no generator")
}

func TestFrameValidate(t *testing.T) {
	frame := &Frame{
		Name: "t",
		Columns: []Column{
			{Name: "a", Ints: []int64{1, 2}},
			{Name: "b", Strings: []string{"x", "y"}},
		},
	}

	assert.NoError(t, frame.Validate(nil))
	assert.NoError(t, frame.Validate([]string{"a", "b"}))
	assert.Error(t, frame.Validate([]string{"a", "missing"}))

	empty := &Frame{Name: "t"}
	assert.Error(t, empty.Validate(nil))

	ragged := &Frame{
		Name: "t",
		Columns: []Column{
			{Name: "a", Ints: []int64{1, 2}},
			{Name: "b", Strings: []string{"x"}},
		},
	}
	assert.Error(t, ragged.Validate(nil))
}

func TestFrameColumnLookup(t *testing.T) {
	frame := &Frame{
		Columns: []Column{{Name: "a", Ints: []int64{1}}},
	}
	require.NotNil(t, frame.Column("a"))
	assert.Nil(t, frame.Column("nope"))
}
