package resources

import (
	"github.com/bizlink/bizlink-admin/internal/crud"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// actions builds the conventional route names, e.g. addCompany,
// getAllCompanies, getCompanyById, updateCompany, deleteCompanyById,
// countCompanies.
func actions(one, many string) crud.Actions {
	return crud.Actions{
		Add:    "add" + one,
		List:   "getAll" + many,
		Get:    "get" + one + "ById",
		Update: "update" + one,
		Delete: "delete" + one + "ById",
		Count:  "count" + many,
	}
}

var memberParams = []string{"user", "userId"}

// Mount registers every CRUD resource under api. Reference data and member
// records are writable by admins only.
func Mount(api gin.IRouter, s Services) {
	admin := []gin.HandlerFunc{middleware.RequireRole(models.RoleAdmin)}

	crud.Register[*models.Ask, AskCreate, AskPatch](api, crud.Resource[*models.Ask]{
		Path: "/myAsk",
		Actions: crud.Actions{
			Add: "addMyAsk", List: "getMyAsks", Get: "getMyAskById",
			Update: "updateMyAsk", Delete: "deleteMyAskById", Count: "countMyAsks",
		},
		Service: s.Asks,
		Owner:   &crud.Owner{Params: memberParams, Field: models.FieldOwner},
	})
	crud.Register[*models.Give, GiveCreate, GivePatch](api, crud.Resource[*models.Give]{
		Path: "/myGives",
		Actions: crud.Actions{
			Add: "addMyGives", List: "getMyGives", Get: "getMyGiveById",
			Update: "updateMyGives", Delete: "deleteMyGivesById", Count: "countMyGives",
		},
		Service: s.Gives,
		Owner:   &crud.Owner{Params: memberParams, Field: models.FieldOwner},
	})
	crud.Register[*models.Company, CompanyCreate, CompanyPatch](api, crud.Resource[*models.Company]{
		Path:    "/company",
		Actions: actions("Company", "Companies"),
		Service: s.Companies,
		Filters: []string{"industryId"},
		Guard:   admin,
	})
	crud.Register[*models.Business, BusinessCreate, BusinessPatch](api, crud.Resource[*models.Business]{
		Path:      "/business",
		Actions:   actions("Business", "Businesses"),
		Service:   s.Businesses,
		Owner:     &crud.Owner{Params: memberParams, Field: models.FieldOwner, Unscoped: true},
		Filters:   []string{"industryId"},
		IDFilters: []string{models.FieldOwner},
	})
	crud.Register[*models.Department, DepartmentCreate, NamePatch](api, crud.Resource[*models.Department]{
		Path:    "/department",
		Actions: actions("Department", "Departments"),
		Service: s.Departments,
		Guard:   admin,
	})
	crud.Register[*models.Industry, IndustryCreate, NamePatch](api, crud.Resource[*models.Industry]{
		Path:    "/industry",
		Actions: actions("Industry", "Industries"),
		Service: s.Industries,
		Guard:   admin,
	})
	crud.Register[*models.Country, CountryCreate, CountryPatch](api, crud.Resource[*models.Country]{
		Path:    "/country",
		Actions: actions("Country", "Countries"),
		Service: s.Countries,
		Guard:   admin,
	})
	crud.Register[*models.Chapter, ChapterCreate, ChapterPatch](api, crud.Resource[*models.Chapter]{
		Path:    "/chapter",
		Actions: actions("Chapter", "Chapters"),
		Service: s.Chapters,
		Filters: []string{"countryId", "cityId"},
		Guard:   admin,
	})
	crud.Register[*models.City, CityCreate, CityPatch](api, crud.Resource[*models.City]{
		Path:    "/city",
		Actions: actions("City", "Cities"),
		Service: s.Cities,
		Filters: []string{"countryId"},
		Guard:   admin,
	})
	crud.Register[*models.CalendarEvent, EventCreate, EventPatch](api, crud.Resource[*models.CalendarEvent]{
		Path:    "/calendar",
		Actions: actions("Event", "Events"),
		Service: s.Events,
		Owner:   &crud.Owner{Params: []string{"createdBy"}, Field: "createdBy", Optional: true, Unscoped: true},
		Filters: []string{"chapterId"},
		Guard:   admin,
	})

	// Registration (addMember) lives in the members package.
	memberActions := actions("Member", "Members")
	memberActions.Add = ""
	crud.Register[*models.Member, noCreate[*models.Member], MemberPatch](api, crud.Resource[*models.Member]{
		Path:    "/member",
		Actions: memberActions,
		Service: s.Members,
		Filters: []string{"chapterId", "industryId"},
		Guard:   admin,
	})
}
