// Package transport defines the HTTP request shapes for site-visit routes.
package transport

type CreateVisitRequest struct {
	OwnerName         string   `json:"owner_name" validate:"required"`
	OwnerContact      string   `json:"owner_contact" validate:"required"`
	BuiltUpArea       *string  `json:"built_up_area"`
	Floors            *string  `json:"floors"`
	EngineerName      *string  `json:"engineer_name"`
	EngineerContact   *string  `json:"engineer_contact"`
	ContractorName    *string  `json:"contractor_name"`
	ContractorContact *string  `json:"contractor_contact"`
	Comments          *string  `json:"comments"`
	Lat               *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng               *float64 `json:"lng" validate:"omitempty,longitude"`
	Response          *string  `json:"response"`
	LocationImages    []string `json:"location_images"`
	Selfie            *string  `json:"selfie"`
}

type UploadRequest struct {
	Image string `json:"image" validate:"required"`
}
