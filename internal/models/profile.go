package models

// BodyProfile is the input of the nutrition calculators.
type BodyProfile struct {
	WeightKg float64 `json:"weight_kg" validate:"required,gt=0,lte=500" example:"80"`
	HeightCm float64 `json:"height_cm" validate:"required,gt=0,lte=300" example:"180"`
	Age      int     `json:"age" validate:"required,gt=0,lte=120" example:"30"`
	Sex      string  `json:"sex" validate:"required,oneof=male female" example:"male"`
	Activity string  `json:"activity" validate:"omitempty,oneof=sedentary light moderate active very_active" example:"moderate"`
}
