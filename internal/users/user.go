package users

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	WeightLbs float64   `json:"weight_lbs"`
	CreatedAt time.Time `json:"created_at"`
}
