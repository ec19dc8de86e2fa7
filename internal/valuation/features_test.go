package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput() CarInput {
	return CarInput{
		City:               "Delhi",
		OEM:                "Maruti",
		Model:              "Swift",
		ModelYear:          2018,
		KmsDriven:          42000,
		FuelType:           "Diesel",
		Ownership:          "Second Owner",
		Transmission:       "Automatic",
		MaxPower:           74,
		EngineType:         "DDiS",
		Mileage:            22.5,
		SeatingCapacity:    5,
		EngineDisplacement: 1248,
		BodyType:           "Hatchback",
		Acceleration:       12.6,
	}
}

func TestBuildFeatures_Order(t *testing.T) {
	v, err := BuildFeatures(sampleInput())
	require.NoError(t, err)

	want := []float64{
		2,     // city Delhi
		6,     // len("Maruti")
		5,     // len("Swift")
		2018,  // year
		42000, // kms
		1,     // Diesel
		1,     // Second Owner
		1,     // Automatic
		74,    // max power
		4,     // len("DDiS")
		22.5,  // mileage
		5,     // seats
		1248,  // displacement
		9,     // len("Hatchback")
		12.6,  // acceleration
	}
	assert.Equal(t, want, v.Values())
}

func TestBuildFeatures_FixedLength(t *testing.T) {
	inputs := []CarInput{
		sampleInput(),
		{City: "Banglore", FuelType: "Petrol", Ownership: "First Owner", Transmission: "Manual"},
		{City: "kolkata", FuelType: "Hybrid", Ownership: "Fourth or More", Transmission: "Manual", KmsDriven: -1, ModelYear: 1900},
	}
	for _, in := range inputs {
		v, err := BuildFeatures(in)
		require.NoError(t, err)
		assert.Len(t, v.Values(), FeatureCount)
	}
	assert.Len(t, FeatureNames, FeatureCount)
}

func TestBuildFeatures_TextLengthCountsCharacters(t *testing.T) {
	in := sampleInput()
	in.OEM = "Škoda"
	in.BodyType = ""

	v, err := BuildFeatures(in)
	require.NoError(t, err)
	assert.Equal(t, float64(5), v.OEMLength)
	assert.Equal(t, float64(0), v.BodyTypeLength)
}

func TestBuildFeatures_PassesNumbersThrough(t *testing.T) {
	in := sampleInput()
	in.Mileage = -3.5
	in.SeatingCapacity = 99

	v, err := BuildFeatures(in)
	require.NoError(t, err)
	assert.Equal(t, -3.5, v.Mileage)
	assert.Equal(t, float64(99), v.SeatingCapacity)
}

func TestBuildFeatures_RejectsUnknownCategory(t *testing.T) {
	in := sampleInput()
	in.Ownership = "Leased"

	_, err := BuildFeatures(in)
	assert.ErrorIs(t, err, ErrUnknownCategoryValue)
}
