package membership

import "errors"

var (
	ErrInvalidType       = errors.New("membership type must be family or individual")
	ErrInvalidStatus     = errors.New("invalid membership status")
	ErrInvalidTransition = errors.New("invalid membership status transition")
	ErrNoPeople          = errors.New("membership must include at least one person")
	ErrInvalidPersonKind = errors.New("person kind must be Self, Spouse or Child")
)

type Type string

const (
	TypeFamily     Type = "family"
	TypeIndividual Type = "individual"
)

func NewType(s string) (Type, error) {
	t := Type(s)
	switch t {
	case TypeFamily, TypeIndividual:
		return t, nil
	default:
		return "", ErrInvalidType
	}
}

type Status string

const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusWaitlist    Status = "waitlist"
	StatusOffered     Status = "offered"
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
	StatusRevoked     Status = "revoked"
	StatusExpired     Status = "expired"
	StatusReturnOffer Status = "returnOffer"
)

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusWaitlist, StatusOffered,
		StatusAccepted, StatusRejected, StatusRevoked, StatusExpired, StatusReturnOffer:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

type PersonKind string

const (
	PersonSelf   PersonKind = "Self"
	PersonSpouse PersonKind = "Spouse"
	PersonChild  PersonKind = "Child"
)

type Person struct {
	Kind      PersonKind `json:"type"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email,omitempty"`
	DOB       string     `json:"dob,omitempty"`
}

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}
