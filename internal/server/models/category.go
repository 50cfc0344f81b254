package models

// Category is a label events can be tagged with. Names are unique.
type Category struct {
	ID   int64
	Name string
}
