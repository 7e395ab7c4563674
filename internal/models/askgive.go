package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Field names used by matching and rename propagation.
const (
	FieldCompanyName = "companyName"
	FieldDepartment  = "department"
	FieldOwner       = "ownerMemberId"
)

// Ask is a member's stated need: a target company and department.
type Ask struct {
	Base          `bson:",inline"`
	CompanyName   string             `bson:"companyName" json:"companyName"`
	Department    string             `bson:"department" json:"department"`
	Message       string             `bson:"message,omitempty" json:"message,omitempty"`
	OwnerMemberID primitive.ObjectID `bson:"ownerMemberId" json:"ownerMemberId"`
}

// Give is a member's stated offering with contact details.
type Give struct {
	Base          `bson:",inline"`
	CompanyName   string             `bson:"companyName" json:"companyName"`
	Department    string             `bson:"department" json:"department"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber   string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	WebURL        string             `bson:"webURL,omitempty" json:"webURL,omitempty"`
	OwnerMemberID primitive.ObjectID `bson:"ownerMemberId" json:"ownerMemberId"`
}
