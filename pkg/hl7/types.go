package hl7

// Patient holds demographics extracted from the PID segment.
// Absent fields are empty strings; this layer never distinguishes
// "absent" from "present but empty".
type Patient struct {
	// ID is the first patient identifier (PID-3, first repetition).
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// FirstName is the given name (PID-5 second component).
	FirstName string `json:"first_name,omitempty" yaml:"first_name,omitempty"`

	// LastName is the family name (PID-5 first component).
	LastName string `json:"last_name,omitempty" yaml:"last_name,omitempty"`

	// DOB is the date of birth, normalized to ISO 8601 when the raw value
	// is timestamp-shaped, otherwise the raw value unchanged.
	DOB string `json:"dob,omitempty" yaml:"dob,omitempty"`

	// Gender is the administrative sex code (PID-8).
	Gender string `json:"gender,omitempty" yaml:"gender,omitempty"`
}

// Provider holds clinician information extracted from the PV1 segment.
type Provider struct {
	// ID is the provider identifier component.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Name is the display name, assembled as last, first, middle, suffix
	// joined by single spaces with empty components skipped.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Metadata holds message-level fields extracted from the MSH segment.
type Metadata struct {
	// MessageType is the raw MSH-9 value (e.g. "SIU^S12").
	MessageType string `json:"message_type,omitempty" yaml:"message_type,omitempty"`

	// ControlID is the message control identifier (MSH-10).
	ControlID string `json:"control_id,omitempty" yaml:"control_id,omitempty"`

	// Timestamp is the message datetime (MSH-7), normalized or raw.
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`

	// SendingApplication and SendingFacility identify the message origin.
	SendingApplication string `json:"sending_application,omitempty" yaml:"sending_application,omitempty"`
	SendingFacility    string `json:"sending_facility,omitempty" yaml:"sending_facility,omitempty"`

	// ReceivingApplication and ReceivingFacility identify the destination.
	ReceivingApplication string `json:"receiving_application,omitempty" yaml:"receiving_application,omitempty"`
	ReceivingFacility    string `json:"receiving_facility,omitempty" yaml:"receiving_facility,omitempty"`

	// Version is the HL7 version declared in MSH-12.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Appointment is the normalized record assembled from one SIU^S12 message.
// It is constructed fresh per message and immutable by convention after
// ParseMessage returns.
type Appointment struct {
	// ID resolves to the filler appointment ID when non-empty, else the
	// placer appointment ID, else the empty string.
	ID string `json:"appointment_id,omitempty" yaml:"appointment_id,omitempty"`

	// Datetime is the appointment timing (SCH-11), normalized or raw.
	Datetime string `json:"appointment_datetime,omitempty" yaml:"appointment_datetime,omitempty"`

	// Patient is always present; its fields default to empty strings.
	Patient Patient `json:"patient" yaml:"patient"`

	// Provider is nil when the message carries no PV1 segment.
	Provider *Provider `json:"provider,omitempty" yaml:"provider,omitempty"`

	// Location is the appointment location, empty when undeclared.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Reason is the appointment reason, empty when undeclared.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Metadata carries message-level header fields.
	Metadata Metadata `json:"metadata" yaml:"metadata"`
}
