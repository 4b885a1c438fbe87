package handlers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/justsurfingit/jobly/internal/apperr"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/models"
	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

// fakeUsers keeps users in memory with plain-text passwords.
type fakeUsers struct {
	mu        sync.Mutex
	users     map[string]models.User
	passwords map[string]string
	applied   map[string][]int
}

func newFakeUsers() *fakeUsers {
	f := &fakeUsers{
		users:     map[string]models.User{},
		passwords: map[string]string{},
		applied:   map[string][]int{},
	}
	for _, u := range []models.User{
		{Username: "admin1", FirstName: "ADMIN1F", LastName: "ADMIN1L", Email: "admin1@gmail.com", IsAdmin: true},
		{Username: "u1", FirstName: "U1F", LastName: "U1L", Email: "user1@user.com"},
		{Username: "u2", FirstName: "U2F", LastName: "U2L", Email: "user2@user.com"},
	} {
		f.users[u.Username] = u
		f.passwords[u.Username] = "password-" + u.Username
	}
	return f
}

func (f *fakeUsers) Authenticate(_ context.Context, username, password string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok || f.passwords[username] != password {
		return nil, apperr.UnauthorizedMsg("Invalid username/password")
	}
	return &u, nil
}

func (f *fakeUsers) Register(_ context.Context, req *dtos.UserCreationRequest) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[req.Username]; ok {
		return nil, apperr.BadRequest("Duplicate username: " + req.Username)
	}
	u := models.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		IsAdmin:   req.IsAdmin,
	}
	f.users[u.Username] = u
	f.passwords[u.Username] = req.Password
	return &u, nil
}

func (f *fakeUsers) FindAll(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeUsers) Get(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, apperr.NotFound("No user: " + username)
	}
	u.Jobs = f.applied[username]
	return &u, nil
}

func (f *fakeUsers) Update(_ context.Context, username string, updates []sqlbuild.Assignment) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(updates) == 0 {
		return nil, apperr.BadRequest("No data")
	}
	u, ok := f.users[username]
	if !ok {
		return nil, apperr.NotFound("No user: " + username)
	}
	for _, a := range updates {
		v, _ := a.Value.(string)
		switch a.Field {
		case "password":
			f.passwords[username] = v
		case "firstName":
			u.FirstName = v
		case "lastName":
			u.LastName = v
		case "email":
			u.Email = v
		}
	}
	f.users[username] = u
	return &u, nil
}

func (f *fakeUsers) Remove(_ context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[username]; !ok {
		return apperr.NotFound("No user: " + username)
	}
	delete(f.users, username)
	return nil
}

func (f *fakeUsers) ApplyToJob(_ context.Context, username string, jobID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if jobID != 1 {
		return apperr.NotFound(fmt.Sprintf("No job: %d", jobID))
	}
	if _, ok := f.users[username]; !ok {
		return apperr.NotFound("No user: " + username)
	}
	f.applied[username] = append(f.applied[username], jobID)
	return nil
}

// fakeCompanies records the last filter it was asked for.
type fakeCompanies struct {
	companies  []models.Company
	lastFilter sqlbuild.CompanyFilter
}

func newFakeCompanies() *fakeCompanies {
	n1, n2, n3 := 1, 2, 3
	return &fakeCompanies{companies: []models.Company{
		{Handle: "c1", Name: "C1", NumEmployees: &n1, Description: "Desc1"},
		{Handle: "c2", Name: "C2", NumEmployees: &n2, Description: "Desc2"},
		{Handle: "c3", Name: "C3", NumEmployees: &n3, Description: "Desc3"},
	}}
}

func (f *fakeCompanies) Create(_ context.Context, req *dtos.CompanyCreationRequest) (*models.Company, error) {
	for _, c := range f.companies {
		if c.Handle == req.Handle {
			return nil, apperr.BadRequest("Duplicate company: " + req.Handle)
		}
	}
	c := models.Company{
		Handle:       req.Handle,
		Name:         req.Name,
		Description:  req.Description,
		NumEmployees: req.NumEmployees,
		LogoURL:      req.LogoURL,
	}
	f.companies = append(f.companies, c)
	return &c, nil
}

func (f *fakeCompanies) FindAll(_ context.Context, filter sqlbuild.CompanyFilter) ([]models.Company, error) {
	f.lastFilter = filter
	out := []models.Company{}
	for _, c := range f.companies {
		if filter.NameLike != nil && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(*filter.NameLike)) {
			continue
		}
		if filter.MinEmployees != nil && (c.NumEmployees == nil || *c.NumEmployees < *filter.MinEmployees) {
			continue
		}
		if filter.MaxEmployees != nil && (c.NumEmployees == nil || *c.NumEmployees > *filter.MaxEmployees) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCompanies) Get(_ context.Context, handle string) (*models.Company, error) {
	for _, c := range f.companies {
		if c.Handle == handle {
			return &c, nil
		}
	}
	return nil, apperr.NotFound("No company: " + handle)
}

func (f *fakeCompanies) Update(ctx context.Context, handle string, updates []sqlbuild.Assignment) (*models.Company, error) {
	if len(updates) == 0 {
		return nil, apperr.BadRequest("No data")
	}
	for i := range f.companies {
		if f.companies[i].Handle != handle {
			continue
		}
		for _, a := range updates {
			switch a.Field {
			case "name":
				f.companies[i].Name = a.Value.(string)
			case "description":
				f.companies[i].Description = a.Value.(string)
			case "numEmployees":
				n := a.Value.(int)
				f.companies[i].NumEmployees = &n
			}
		}
		return f.Get(ctx, handle)
	}
	return nil, apperr.NotFound("No company: " + handle)
}

func (f *fakeCompanies) Remove(_ context.Context, handle string) error {
	for i, c := range f.companies {
		if c.Handle == handle {
			f.companies = append(f.companies[:i], f.companies[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("No company: " + handle)
}

// fakeJobs holds jobs keyed by id; failWith makes every call fail.
type fakeJobs struct {
	jobs     map[int]models.Job
	nextID   int
	failWith error
}

func newFakeJobs() *fakeJobs {
	salary := 100
	return &fakeJobs{
		jobs:   map[int]models.Job{1: {ID: 1, Title: "J1", Salary: &salary, CompanyHandle: "c1"}},
		nextID: 2,
	}
}

func (f *fakeJobs) CreateJob(_ context.Context, req *dtos.JobCreationRequest) (*models.Job, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if req.CompanyHandle != "c1" {
		return nil, apperr.BadRequest("No company: " + req.CompanyHandle)
	}
	j := models.Job{ID: f.nextID, Title: req.Title, Salary: req.Salary, Equity: req.Equity, CompanyHandle: req.CompanyHandle}
	f.jobs[j.ID] = j
	f.nextID++
	return &j, nil
}

func (f *fakeJobs) FindAll(context.Context) ([]models.Job, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]models.Job, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (f *fakeJobs) Get(_ context.Context, id int) (*models.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("No job: %d", id))
	}
	return &j, nil
}

func (f *fakeJobs) Update(ctx context.Context, id int, updates []sqlbuild.Assignment) (*models.Job, error) {
	if len(updates) == 0 {
		return nil, apperr.BadRequest("No data")
	}
	j, ok := f.jobs[id]
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("No job: %d", id))
	}
	for _, a := range updates {
		if a.Field == "title" {
			j.Title = a.Value.(string)
		}
	}
	f.jobs[id] = j
	return &j, nil
}

func (f *fakeJobs) Remove(_ context.Context, id int) error {
	if _, ok := f.jobs[id]; !ok {
		return apperr.NotFound(fmt.Sprintf("No job: %d", id))
	}
	delete(f.jobs, id)
	return nil
}

type fakeExtractor struct {
	draft *dtos.JobDraft
	err   error
}

func (f *fakeExtractor) ExtractJob(context.Context, string) (*dtos.JobDraft, error) {
	if f.err != nil {
		return nil, f.err
	}
	d := *f.draft
	return &d, nil
}

var errDatabaseDown = errors.New("database is down")
