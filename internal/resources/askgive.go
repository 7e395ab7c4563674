package resources

import (
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/internal/sanitize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AskCreate is the body of addMyAsk. The department may be sent as `dept`
// or `department`.
type AskCreate struct {
	CompanyName string `json:"companyName" binding:"required,max=200"`
	Dept        string `json:"dept" binding:"max=200"`
	Department  string `json:"department" binding:"max=200"`
	Message     string `json:"message" binding:"max=2000"`
}

func (r AskCreate) Model(owner primitive.ObjectID) (*models.Ask, error) {
	company, err := required("companyName", r.CompanyName)
	if err != nil {
		return nil, err
	}
	dept, err := required("dept", firstNonEmpty(r.Dept, r.Department))
	if err != nil {
		return nil, err
	}
	return &models.Ask{
		CompanyName:   company,
		Department:    dept,
		Message:       sanitize.Text(r.Message),
		OwnerMemberID: owner,
	}, nil
}

type AskPatch struct {
	CompanyName *string `json:"companyName" binding:"omitempty,max=200"`
	Dept        *string `json:"dept" binding:"omitempty,max=200"`
	Department  *string `json:"department" binding:"omitempty,max=200"`
	Message     *string `json:"message" binding:"omitempty,max=2000"`
}

func (r AskPatch) Fields() (bson.M, error) {
	p := patch{}
	if err := p.text(models.FieldCompanyName, r.CompanyName, nil, true); err != nil {
		return nil, err
	}
	if err := p.text(models.FieldDepartment, deptPatch(r.Dept, r.Department), nil, true); err != nil {
		return nil, err
	}
	if err := p.text("message", r.Message, sanitize.Text, false); err != nil {
		return nil, err
	}
	return p.fields()
}

// GiveCreate is the body of addMyGives.
type GiveCreate struct {
	CompanyName string `json:"companyName" binding:"required,max=200"`
	Dept        string `json:"dept" binding:"max=200"`
	Department  string `json:"department" binding:"max=200"`
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" binding:"max=40"`
	WebURL      string `json:"webURL" binding:"omitempty,url"`
}

func (r GiveCreate) Model(owner primitive.ObjectID) (*models.Give, error) {
	company, err := required("companyName", r.CompanyName)
	if err != nil {
		return nil, err
	}
	return &models.Give{
		CompanyName:   company,
		Department:    firstNonEmpty(r.Dept, r.Department),
		Email:         firstNonEmpty(r.Email),
		PhoneNumber:   firstNonEmpty(r.PhoneNumber),
		WebURL:        firstNonEmpty(r.WebURL),
		OwnerMemberID: owner,
	}, nil
}

type GivePatch struct {
	CompanyName *string `json:"companyName" binding:"omitempty,max=200"`
	Dept        *string `json:"dept" binding:"omitempty,max=200"`
	Department  *string `json:"department" binding:"omitempty,max=200"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,max=40"`
	WebURL      *string `json:"webURL" binding:"omitempty,url"`
}

func (r GivePatch) Fields() (bson.M, error) {
	p := patch{}
	if err := p.text(models.FieldCompanyName, r.CompanyName, nil, true); err != nil {
		return nil, err
	}
	for key, v := range map[string]*string{
		models.FieldDepartment: deptPatch(r.Dept, r.Department),
		"email":                r.Email,
		"phoneNumber":          r.PhoneNumber,
		"webURL":               r.WebURL,
	} {
		if err := p.text(key, v, nil, false); err != nil {
			return nil, err
		}
	}
	return p.fields()
}
