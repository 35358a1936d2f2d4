package domain

type Car struct {
	ID                int32  `json:"id"`
	Brand             string `json:"brand"`
	Model             string `json:"model"`
	BodyType          string `json:"body_type"`
	CarClass          string `json:"car_class"`
	RegistrationPlate string `json:"registration_plate"`
	DailyRateCents    int32  `json:"daily_rate_cents"`
}
