package dto

// StatsResponse aggregates platform counters for the admin dashboard
type StatsResponse struct {
	Users        map[string]int `json:"users"`
	Companies    map[string]int `json:"companies"`
	Jobs         map[string]int `json:"jobs"`
	Applications map[string]int `json:"applications"`
	Communities  int            `json:"communities"`
	Messages     int            `json:"messages"`
}
