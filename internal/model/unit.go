package model

// Unit is a physical or organizational site. Units are referenced by
// professionals and instructors and are never hard-deleted; the active
// flag is toggled instead.
type Unit struct {
	Base
	Name         string `json:"name" db:"name"`
	Type         string `json:"type" db:"type"`
	Abbreviation string `json:"abbreviation" db:"abbreviation"`
	Address      string `json:"address" db:"address"`
	Active       bool   `json:"active" db:"active"`
}

type CreateUnitRequest struct {
	Name         string `json:"name" binding:"required"`
	Type         string `json:"type" binding:"required"`
	Abbreviation string `json:"abbreviation"`
	Address      string `json:"address"`
}

type UpdateUnitRequest struct {
	Name         *string `json:"name"`
	Type         *string `json:"type"`
	Abbreviation *string `json:"abbreviation"`
	Address      *string `json:"address"`
	Active       *bool   `json:"active"`
}
