package domain

// Profile is the backend-owned employee record. The client treats it as a
// read-mostly value: only display and outbound edit payloads depend on its
// shape. Date fields arrive as backend-local date strings and are passed
// through unparsed.
type Profile struct {
	ID                     int64  `json:"id"`
	Name                   string `json:"name"`
	Username               string `json:"username"`
	Role                   Role   `json:"role"`
	ContactNumber          string `json:"contactNumber"`
	Department             string `json:"department"`
	Designation            string `json:"designation"`
	DateOfJoining          string `json:"dateOfJoining,omitempty"`
	Approved               bool   `json:"approved"`
	FirstLogin             bool   `json:"firstLogin"`
	Active                 bool   `json:"active"`
	ProfilePictureURL      string `json:"profilePictureUrl,omitempty"`
	EmergencyContactName   string `json:"emergencyContactName,omitempty"`
	EmergencyContactNumber string `json:"emergencyContactNumber,omitempty"`
}

// ProfileUpdate is the outbound payload for editing one's own record.
type ProfileUpdate struct {
	Name                   string `json:"name"`
	Username               string `json:"username"`
	ContactNumber          string `json:"contactNumber"`
	Department             string `json:"department"`
	Designation            string `json:"designation"`
	EmergencyContactName   string `json:"emergencyContactName,omitempty"`
	EmergencyContactNumber string `json:"emergencyContactNumber,omitempty"`
}
