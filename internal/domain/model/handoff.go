package model

// Handoff carries donor identity from a submission to the success page.
type Handoff struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
