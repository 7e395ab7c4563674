package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bizlink/bizlink-admin/internal/crud"
	"github.com/bizlink/bizlink-admin/internal/matching"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type matchFixture struct {
	router *gin.Engine
	asks   *crud.MemoryRepo[*models.Ask]
	gives  *crud.MemoryRepo[*models.Give]
	me     primitive.ObjectID
	giver  *models.Member
	clock  time.Time
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &matchFixture{
		asks:  crud.NewMemoryRepo[*models.Ask](),
		gives: crud.NewMemoryRepo[*models.Give](),
		me:    primitive.NewObjectID(),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	membersRepo := crud.NewMemoryRepo[*models.Member]()
	f.giver = &models.Member{FirstName: "Lena", Email: "lena@example.com", CompanyName: "Initech"}
	require.NoError(t, membersRepo.Create(context.Background(), f.giver))

	g := gin.New()
	api := g.Group("/api", func(c *gin.Context) {
		c.Set(middleware.KeyMemberID, f.me.Hex())
		c.Set(middleware.KeyRole, models.RoleMember)
		c.Next()
	})
	NewMatchHandler(matching.NewFinder(f.asks, f.gives, membersRepo), 0).Register(api)
	f.router = g
	return f
}

func (f *matchFixture) ask(t *testing.T, company, dept string) {
	t.Helper()
	a := &models.Ask{CompanyName: company, Department: dept, OwnerMemberID: f.me}
	require.NoError(t, f.asks.Create(context.Background(), a))
}

func (f *matchFixture) give(t *testing.T, company, dept string) {
	t.Helper()
	f.clock = f.clock.Add(time.Minute)
	g := &models.Give{CompanyName: company, Department: dept, OwnerMemberID: f.giver.ID}
	g.CreatedAt = f.clock
	require.NoError(t, f.gives.Create(context.Background(), g))
}

func (f *matchFixture) get(target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestGroupedEndpoint(t *testing.T) {
	f := newMatchFixture(t)
	f.ask(t, "Acme", "Sales")
	f.give(t, "ACME", "IT")
	f.give(t, "acme", "Sales")

	w := f.get("/api/myGives/getMyGivesBasedOnMyAsks")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Matches []struct {
			CompanyName string `json:"companyName"`
			Gives       []struct {
				CompanyName string `json:"companyName"`
				Owner       *struct {
					Email string `json:"email"`
				} `json:"owner"`
			} `json:"gives"`
		} `json:"matches"`
		Total       int  `json:"total"`
		Page        int  `json:"page"`
		PageSize    int  `json:"pageSize"`
		HasNextPage bool `json:"hasNextPage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, 1, res.Total)
	require.Equal(t, 1, res.Page)
	require.Equal(t, matching.DefaultPageSize, res.PageSize)
	require.False(t, res.HasNextPage)
	require.Len(t, res.Matches, 1)
	require.Equal(t, "ACME", res.Matches[0].CompanyName)
	require.Len(t, res.Matches[0].Gives, 2)
	require.NotNil(t, res.Matches[0].Gives[0].Owner)
	require.Equal(t, "lena@example.com", res.Matches[0].Gives[0].Owner.Email)
}

func TestGroupedEndpointPaging(t *testing.T) {
	f := newMatchFixture(t)
	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("Company %d", i)
		f.ask(t, name, "Ops")
		f.give(t, name, "Ops")
	}

	w := f.get("/api/myGives/getMyGivesBasedOnMyAsks?page=1&pageSize=2")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"hasNextPage":true`)
	require.Contains(t, w.Body.String(), `"total":3`)

	w = f.get("/api/myGives/getMyGivesBasedOnMyAsks?page=2&pageSize=2")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"hasNextPage":false`)

	for _, target := range []string{
		"/api/myGives/getMyGivesBasedOnMyAsks?page=2305843009213693953&pageSize=5",
		"/api/match2/myMatchesByCompanyAndDept?page=2305843009213693953&pageSize=5",
	} {
		w = f.get(target)
		require.Equal(t, http.StatusOK, w.Code, target)
		require.Contains(t, w.Body.String(), `"hasNextPage":false`, target)
		require.Contains(t, w.Body.String(), `"total":3`, target)
	}
}

func TestGroupedEndpointErrors(t *testing.T) {
	f := newMatchFixture(t)

	w := f.get("/api/myGives/getMyGivesBasedOnMyAsks?userId=not-an-id")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "VALIDATION_ERROR")

	w = f.get("/api/myGives/getMyGivesBasedOnMyAsks")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "no asks found")

	f.ask(t, "Umbrella", "R&D")
	w = f.get("/api/myGives/getMyGivesBasedOnMyAsks")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "no match found")

	other := primitive.NewObjectID().Hex()
	w = f.get("/api/myGives/getMyGivesBasedOnMyAsks?userId=" + other)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "no asks found")
}

func TestDeptEndpoint(t *testing.T) {
	f := newMatchFixture(t)
	f.ask(t, "Acme", "Sales")
	f.ask(t, "Globex", "IT")
	f.give(t, "acme", "Sales")
	f.give(t, "Acme", "IT")
	f.give(t, "GLOBEX", "IT")

	w := f.get("/api/match2/myMatchesByCompanyAndDept")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Gives []struct {
			CompanyName string `json:"companyName"`
			Department  string `json:"department"`
		} `json:"gives"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, 2, res.Total)
	require.Equal(t, "GLOBEX", res.Gives[0].CompanyName)
	require.Equal(t, "acme", res.Gives[1].CompanyName)

	w = f.get("/api/match2/myMatchesByCompanyAndDept?companyName=ACME&dept=Sales")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total":1`)

	w = f.get("/api/match2/myMatchesByCompanyAndDept?companyName=Initech")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "no match found")
}
