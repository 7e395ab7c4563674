package resources

import (
	"strings"

	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/internal/sanitize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CompanyCreate struct {
	Name        string `json:"name" binding:"required,max=200"`
	IndustryID  string `json:"industryId" binding:"omitempty,objectid"`
	Description string `json:"description" binding:"max=5000"`
}

func (r CompanyCreate) Model(primitive.ObjectID) (*models.Company, error) {
	name, err := required("name", r.Name)
	if err != nil {
		return nil, err
	}
	return &models.Company{Name: name, IndustryID: r.IndustryID, Description: sanitize.HTML(r.Description)}, nil
}

type CompanyPatch struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	IndustryID  *string `json:"industryId"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

func (r CompanyPatch) Fields() (bson.M, error) {
	p := patch{}
	if err := p.text("name", r.Name, nil, true); err != nil {
		return nil, err
	}
	if err := p.ref("industryId", r.IndustryID); err != nil {
		return nil, err
	}
	if err := p.text("description", r.Description, sanitize.HTML, false); err != nil {
		return nil, err
	}
	return p.fields()
}

// BusinessCreate is a member's business profile; Logo and Brochure are
// filenames returned by the upload endpoints.
type BusinessCreate struct {
	BusinessName string `json:"businessName" binding:"required,max=200"`
	CompanyName  string `json:"companyName" binding:"max=200"`
	IndustryID   string `json:"industryId" binding:"omitempty,objectid"`
	Description  string `json:"description" binding:"max=5000"`
	Website      string `json:"website" binding:"omitempty,url"`
	Logo         string `json:"logo" binding:"max=200"`
	Brochure     string `json:"brochure" binding:"max=200"`
}

func (r BusinessCreate) Model(owner primitive.ObjectID) (*models.Business, error) {
	name, err := required("businessName", r.BusinessName)
	if err != nil {
		return nil, err
	}
	return &models.Business{
		OwnerMemberID: owner,
		BusinessName:  name,
		CompanyName:   strings.TrimSpace(r.CompanyName),
		IndustryID:    r.IndustryID,
		Description:   sanitize.HTML(r.Description),
		Website:       strings.TrimSpace(r.Website),
		Logo:          strings.TrimSpace(r.Logo),
		Brochure:      strings.TrimSpace(r.Brochure),
	}, nil
}

type BusinessPatch struct {
	BusinessName *string `json:"businessName" binding:"omitempty,max=200"`
	CompanyName  *string `json:"companyName" binding:"omitempty,max=200"`
	IndustryID   *string `json:"industryId"`
	Description  *string `json:"description" binding:"omitempty,max=5000"`
	Website      *string `json:"website" binding:"omitempty,url"`
	Logo         *string `json:"logo" binding:"omitempty,max=200"`
	Brochure     *string `json:"brochure" binding:"omitempty,max=200"`
}

func (r BusinessPatch) Fields() (bson.M, error) {
	p := patch{}
	if err := p.text("businessName", r.BusinessName, nil, true); err != nil {
		return nil, err
	}
	if err := p.ref("industryId", r.IndustryID); err != nil {
		return nil, err
	}
	if err := p.text("description", r.Description, sanitize.HTML, false); err != nil {
		return nil, err
	}
	for key, v := range map[string]*string{
		"companyName": r.CompanyName,
		"website":     r.Website,
		"logo":        r.Logo,
		"brochure":    r.Brochure,
	} {
		if err := p.text(key, v, nil, false); err != nil {
			return nil, err
		}
	}
	return p.fields()
}

type DepartmentCreate struct {
	Name string `json:"name" binding:"required,max=120"`
}

func (r DepartmentCreate) Model(primitive.ObjectID) (*models.Department, error) {
	name, err := required("name", r.Name)
	if err != nil {
		return nil, err
	}
	return &models.Department{Name: name}, nil
}

type IndustryCreate struct {
	Name string `json:"name" binding:"required,max=120"`
}

func (r IndustryCreate) Model(primitive.ObjectID) (*models.Industry, error) {
	name, err := required("name", r.Name)
	if err != nil {
		return nil, err
	}
	return &models.Industry{Name: name}, nil
}

// NamePatch updates resources whose only field is a name.
type NamePatch struct {
	Name *string `json:"name" binding:"omitempty,max=120"`
}

func (r NamePatch) Fields() (bson.M, error) {
	p := patch{}
	if err := p.text("name", r.Name, nil, true); err != nil {
		return nil, err
	}
	return p.fields()
}

type CountryCreate struct {
	Name string `json:"name" binding:"required,max=120"`
	Code string `json:"code" binding:"omitempty,alpha,min=2,max=3"`
}

func (r CountryCreate) Model(primitive.ObjectID) (*models.Country, error) {
	name, err := required("name", r.Name)
	if err != nil {
		return nil, err
	}
	return &models.Country{Name: name, Code: strings.ToUpper(r.Code)}, nil
}

type CountryPatch struct {
	Name *string `json:"name" binding:"omitempty,max=120"`
	Code *string `json:"code" binding:"omitempty,alpha,min=2,max=3"`
}

func (r CountryPatch) Fields() (bson.M, error) {
	p := patch{}
	if err := p.text("name", r.Name, nil, true); err != nil {
		return nil, err
	}
	if err := p.text("code", r.Code, strings.ToUpper, false); err != nil {
		return nil, err
	}
	return p.fields()
}

type CityCreate struct {
	Name      string `json:"name" binding:"required,max=120"`
	CountryID string `json:"countryId" binding:"required,objectid"`
}

func (r CityCreate) Model(primitive.ObjectID) (*models.City, error) {
	name, err := required("name", r.Name)
	if err != nil {
		return nil, err
	}
	return &models.City{Name: name, CountryID: r.CountryID}, nil
}

type CityPatch struct {
	Name      *string `json:"name" binding:"omitempty,max=120"`
	CountryID *string `json:"countryId"`
}

func (r CityPatch) Fields() (bson.M, error) {
	p := patch{}
	if err := p.text("name", r.Name, nil, true); err != nil {
		return nil, err
	}
	if err := p.ref("countryId", r.CountryID); err != nil {
		return nil, err
	}
	return p.fields()
}

type ChapterCreate struct {
	Name      string `json:"name" binding:"required,max=120"`
	CountryID string `json:"countryId" binding:"omitempty,objectid"`
	CityID    string `json:"cityId" binding:"omitempty,objectid"`
}

func (r ChapterCreate) Model(primitive.ObjectID) (*models.Chapter, error) {
	name, err := required("name", r.Name)
	if err != nil {
		return nil, err
	}
	return &models.Chapter{Name: name, CountryID: r.CountryID, CityID: r.CityID}, nil
}

type ChapterPatch struct {
	Name      *string `json:"name" binding:"omitempty,max=120"`
	CountryID *string `json:"countryId"`
	CityID    *string `json:"cityId"`
}

func (r ChapterPatch) Fields() (bson.M, error) {
	p := patch{}
	if err := p.text("name", r.Name, nil, true); err != nil {
		return nil, err
	}
	if err := p.ref("countryId", r.CountryID); err != nil {
		return nil, err
	}
	if err := p.ref("cityId", r.CityID); err != nil {
		return nil, err
	}
	return p.fields()
}
