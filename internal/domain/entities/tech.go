package entities

// TechStack represents a technology a user can list on their profile
type TechStack struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
