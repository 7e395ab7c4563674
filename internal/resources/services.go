package resources

import (
	"github.com/bizlink/bizlink-admin/internal/crud"
	"github.com/bizlink/bizlink-admin/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names.
const (
	ColMembers     = "members"
	ColAsks        = "asks"
	ColGives       = "gives"
	ColCompanies   = "companies"
	ColBusinesses  = "businesses"
	ColDepartments = "departments"
	ColIndustries  = "industries"
	ColCountries   = "countries"
	ColChapters    = "chapters"
	ColCities      = "cities"
	ColEvents      = "calendarevents"
)

// Services bundles one CRUD service per collection.
type Services struct {
	Members     *crud.Service[*models.Member]
	Asks        *crud.Service[*models.Ask]
	Gives       *crud.Service[*models.Give]
	Companies   *crud.Service[*models.Company]
	Businesses  *crud.Service[*models.Business]
	Departments *crud.Service[*models.Department]
	Industries  *crud.Service[*models.Industry]
	Countries   *crud.Service[*models.Country]
	Chapters    *crud.Service[*models.Chapter]
	Cities      *crud.Service[*models.City]
	Events      *crud.Service[*models.CalendarEvent]
}

// NewMongoServices backs every service with its Mongo collection.
func NewMongoServices(db *mongo.Database) Services {
	return Services{
		Members:     crud.NewService[*models.Member]("member", crud.NewMongoRepo[*models.Member](db.Collection(ColMembers))),
		Asks:        crud.NewService[*models.Ask]("ask", crud.NewMongoRepo[*models.Ask](db.Collection(ColAsks))),
		Gives:       crud.NewService[*models.Give]("give", crud.NewMongoRepo[*models.Give](db.Collection(ColGives))),
		Companies:   crud.NewService[*models.Company]("company", crud.NewMongoRepo[*models.Company](db.Collection(ColCompanies))),
		Businesses:  crud.NewService[*models.Business]("business", crud.NewMongoRepo[*models.Business](db.Collection(ColBusinesses))),
		Departments: crud.NewService[*models.Department]("department", crud.NewMongoRepo[*models.Department](db.Collection(ColDepartments))),
		Industries:  crud.NewService[*models.Industry]("industry", crud.NewMongoRepo[*models.Industry](db.Collection(ColIndustries))),
		Countries:   crud.NewService[*models.Country]("country", crud.NewMongoRepo[*models.Country](db.Collection(ColCountries))),
		Chapters:    crud.NewService[*models.Chapter]("chapter", crud.NewMongoRepo[*models.Chapter](db.Collection(ColChapters))),
		Cities:      crud.NewService[*models.City]("city", crud.NewMongoRepo[*models.City](db.Collection(ColCities))),
		Events:      crud.NewService[*models.CalendarEvent]("event", crud.NewMongoRepo[*models.CalendarEvent](db.Collection(ColEvents))),
	}
}

// NewMemoryServices is the in-memory equivalent used by tests and by the API
// when started without Mongo in development. Unique fields mirror the Mongo
// indexes.
func NewMemoryServices() Services {
	return Services{
		Members:     crud.NewService[*models.Member]("member", crud.NewMemoryRepo[*models.Member]("email", "referralCode")),
		Asks:        crud.NewService[*models.Ask]("ask", crud.NewMemoryRepo[*models.Ask]()),
		Gives:       crud.NewService[*models.Give]("give", crud.NewMemoryRepo[*models.Give]()),
		Companies:   crud.NewService[*models.Company]("company", crud.NewMemoryRepo[*models.Company]()),
		Businesses:  crud.NewService[*models.Business]("business", crud.NewMemoryRepo[*models.Business]()),
		Departments: crud.NewService[*models.Department]("department", crud.NewMemoryRepo[*models.Department]()),
		Industries:  crud.NewService[*models.Industry]("industry", crud.NewMemoryRepo[*models.Industry]()),
		Countries:   crud.NewService[*models.Country]("country", crud.NewMemoryRepo[*models.Country]()),
		Chapters:    crud.NewService[*models.Chapter]("chapter", crud.NewMemoryRepo[*models.Chapter]()),
		Cities:      crud.NewService[*models.City]("city", crud.NewMemoryRepo[*models.City]()),
		Events:      crud.NewService[*models.CalendarEvent]("event", crud.NewMemoryRepo[*models.CalendarEvent]()),
	}
}
