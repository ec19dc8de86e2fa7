package valuation

import "unicode/utf8"

// CarInput is everything the valuation form collects.
type CarInput struct {
	City               string  `json:"city"`
	OEM                string  `json:"oem"`
	Model              string  `json:"model"`
	ModelYear          float64 `json:"model_year"`
	KmsDriven          float64 `json:"kms_driven"`
	FuelType           string  `json:"fuel_type"`
	Ownership          string  `json:"ownership"`
	Transmission       string  `json:"transmission"`
	MaxPower           float64 `json:"max_power"`
	EngineType         string  `json:"engine_type"`
	Mileage            float64 `json:"mileage"`
	SeatingCapacity    float64 `json:"seating_capacity"`
	EngineDisplacement float64 `json:"engine_displacement"`
	BodyType           string  `json:"body_type"`
	Acceleration       float64 `json:"acceleration"`
}

const FeatureCount = 15

// FeatureNames lists the model inputs in training order.
var FeatureNames = [FeatureCount]string{
	"city",
	"oem_length",
	"model_length",
	"model_year",
	"kms_driven",
	"fuel_type",
	"ownership",
	"transmission",
	"max_power",
	"engine_type_length",
	"mileage",
	"seating_capacity",
	"engine_displacement",
	"body_type_length",
	"acceleration",
}

// FeatureVector holds the encoded form. Free-text fields are represented
// only by their length in characters.
type FeatureVector struct {
	City               float64 `json:"city"`
	OEMLength          float64 `json:"oem_length"`
	ModelLength        float64 `json:"model_length"`
	ModelYear          float64 `json:"model_year"`
	KmsDriven          float64 `json:"kms_driven"`
	FuelType           float64 `json:"fuel_type"`
	Ownership          float64 `json:"ownership"`
	Transmission       float64 `json:"transmission"`
	MaxPower           float64 `json:"max_power"`
	EngineTypeLength   float64 `json:"engine_type_length"`
	Mileage            float64 `json:"mileage"`
	SeatingCapacity    float64 `json:"seating_capacity"`
	EngineDisplacement float64 `json:"engine_displacement"`
	BodyTypeLength     float64 `json:"body_type_length"`
	Acceleration       float64 `json:"acceleration"`
}

// Values flattens the vector in the order of FeatureNames. This is the only
// place that order is defined; keep both in sync with the trained model.
func (v FeatureVector) Values() []float64 {
	return []float64{
		v.City,
		v.OEMLength,
		v.ModelLength,
		v.ModelYear,
		v.KmsDriven,
		v.FuelType,
		v.Ownership,
		v.Transmission,
		v.MaxPower,
		v.EngineTypeLength,
		v.Mileage,
		v.SeatingCapacity,
		v.EngineDisplacement,
		v.BodyTypeLength,
		v.Acceleration,
	}
}

// BuildFeatures encodes the categorical fields and substitutes text lengths.
// Numeric fields are passed through unchecked.
func BuildFeatures(in CarInput) (FeatureVector, error) {
	city, err := Encode(CategoryCity, in.City)
	if err != nil {
		return FeatureVector{}, err
	}
	fuel, err := Encode(CategoryFuelType, in.FuelType)
	if err != nil {
		return FeatureVector{}, err
	}
	ownership, err := Encode(CategoryOwnership, in.Ownership)
	if err != nil {
		return FeatureVector{}, err
	}
	transmission, err := Encode(CategoryTransmission, in.Transmission)
	if err != nil {
		return FeatureVector{}, err
	}

	return FeatureVector{
		City:               float64(city),
		OEMLength:          textLength(in.OEM),
		ModelLength:        textLength(in.Model),
		ModelYear:          in.ModelYear,
		KmsDriven:          in.KmsDriven,
		FuelType:           float64(fuel),
		Ownership:          float64(ownership),
		Transmission:       float64(transmission),
		MaxPower:           in.MaxPower,
		EngineTypeLength:   textLength(in.EngineType),
		Mileage:            in.Mileage,
		SeatingCapacity:    in.SeatingCapacity,
		EngineDisplacement: in.EngineDisplacement,
		BodyTypeLength:     textLength(in.BodyType),
		Acceleration:       in.Acceleration,
	}, nil
}

func textLength(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}
