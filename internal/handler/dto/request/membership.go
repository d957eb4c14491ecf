package request

import (
	"splashboard/internal/domain/membership"
)

type PersonRequest struct {
	Kind      string `json:"type" binding:"required,oneof=Self Spouse Child"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email"`
	DOB       string `json:"dob"`
}

type AddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type ApplyMembershipRequest struct {
	Season  string          `json:"season"`
	Type    string          `json:"type" binding:"required,oneof=family individual"`
	People  []PersonRequest `json:"people" binding:"required,min=1,dive"`
	Address *AddressRequest `json:"address"`
}

func (r *ApplyMembershipRequest) ToPeople() []membership.Person {
	people := make([]membership.Person, 0, len(r.People))
	for _, p := range r.People {
		people = append(people, membership.Person{
			Kind:      membership.PersonKind(p.Kind),
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
			DOB:       p.DOB,
		})
	}
	return people
}

func (r *ApplyMembershipRequest) ToAddress() *membership.Address {
	if r.Address == nil {
		return nil
	}
	return &membership.Address{
		Street:  r.Address.Street,
		City:    r.Address.City,
		State:   r.Address.State,
		ZipCode: r.Address.ZipCode,
	}
}
