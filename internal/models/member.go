package models

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Member is the core identity of the network. Approval is two-step: an admin
// approves the registration and the sponsoring member confirms it.
type Member struct {
	Base           `bson:",inline"`
	FirstName      string `bson:"firstName" json:"firstName"`
	LastName       string `bson:"lastName" json:"lastName"`
	Email          string `bson:"email" json:"email"`
	Phone          string `bson:"phone,omitempty" json:"phone,omitempty"`
	CompanyName    string `bson:"companyName,omitempty" json:"companyName,omitempty"`
	ChapterID      string `bson:"chapterId,omitempty" json:"chapterId,omitempty"`
	IndustryID     string `bson:"industryId,omitempty" json:"industryId,omitempty"`
	ProfileImage   string `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Role           string `bson:"role" json:"role"`
	AdminApproved  bool   `bson:"adminApproved" json:"adminApproved"`
	MemberApproved bool   `bson:"memberApproved" json:"memberApproved"`
	ReferralCode   string `bson:"referralCode" json:"referralCode"`
	ReferredBy     string `bson:"referredBy,omitempty" json:"referredBy,omitempty"`
}

// FullName joins first and last name.
func (m *Member) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}
