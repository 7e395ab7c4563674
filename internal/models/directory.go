package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Company struct {
	Base        `bson:",inline"`
	Name        string `bson:"name" json:"name"`
	IndustryID  string `bson:"industryId,omitempty" json:"industryId,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Business is a member's public-facing company profile.
type Business struct {
	Base          `bson:",inline"`
	OwnerMemberID primitive.ObjectID `bson:"ownerMemberId" json:"ownerMemberId"`
	BusinessName  string             `bson:"businessName" json:"businessName"`
	CompanyName   string             `bson:"companyName,omitempty" json:"companyName,omitempty"`
	IndustryID    string             `bson:"industryId,omitempty" json:"industryId,omitempty"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Website       string             `bson:"website,omitempty" json:"website,omitempty"`
	Logo          string             `bson:"logo,omitempty" json:"logo,omitempty"`
	Brochure      string             `bson:"brochure,omitempty" json:"brochure,omitempty"`
}

type Department struct {
	Base `bson:",inline"`
	Name string `bson:"name" json:"name"`
}

type Industry struct {
	Base `bson:",inline"`
	Name string `bson:"name" json:"name"`
}

type Country struct {
	Base `bson:",inline"`
	Name string `bson:"name" json:"name"`
	Code string `bson:"code,omitempty" json:"code,omitempty"`
}

type City struct {
	Base      `bson:",inline"`
	Name      string `bson:"name" json:"name"`
	CountryID string `bson:"countryId" json:"countryId"`
}

// Chapter is a local group of members within a city.
type Chapter struct {
	Base      `bson:",inline"`
	Name      string `bson:"name" json:"name"`
	CountryID string `bson:"countryId,omitempty" json:"countryId,omitempty"`
	CityID    string `bson:"cityId,omitempty" json:"cityId,omitempty"`
}
