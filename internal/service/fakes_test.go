package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avjabalpur/cian-erp-sub002/internal/domain"
	"github.com/avjabalpur/cian-erp-sub002/internal/repository"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeUserRepository struct {
	mu     sync.Mutex
	users  map[int64]domain.User
	nextID int64
	err    error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[int64]domain.User{}, nextID: 1}
}

func (r *fakeUserRepository) find(match func(domain.User) bool) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return domain.User{}, r.err
	}
	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return domain.User{}, nil
}

func (r *fakeUserRepository) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *fakeUserRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *fakeUserRepository) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepository) AddUser(ctx context.Context, data domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	data.ID = r.nextID
	r.nextID++
	r.users[data.ID] = data
	return data.ID, nil
}

func (r *fakeUserRepository) UpdateLoginInfo(ctx context.Context, data domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[data.ID]
	u.LastLogin = data.LastLogin
	u.FailedLoginAttempts = data.FailedLoginAttempts
	u.LockedUntil = data.LockedUntil
	u.RefreshToken = data.RefreshToken
	u.RefreshTokenExpiryTime = data.RefreshTokenExpiryTime
	u.UpdatedAt = data.UpdatedAt
	r.users[data.ID] = u
	return nil
}

func (r *fakeUserRepository) RecordFailedLogin(ctx context.Context, id int64, maxAttempts int, lockedUntil int64, timestamp int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	u.FailedLoginAttempts++
	if maxAttempts > 0 && u.FailedLoginAttempts >= maxAttempts {
		u.LockedUntil = &lockedUntil
	}
	u.UpdatedAt = timestamp
	r.users[id] = u
	return nil
}

func (r *fakeUserRepository) RotateRefreshToken(ctx context.Context, id int64, previous string, next string, expiry int64, timestamp int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	if u.RefreshToken == nil || *u.RefreshToken != previous {
		return false, nil
	}
	u.RefreshToken = &next
	u.RefreshTokenExpiryTime = &expiry
	u.UpdatedAt = timestamp
	r.users[id] = u
	return true, nil
}

func (r *fakeUserRepository) ClearRefreshToken(ctx context.Context, id int64, timestamp int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	u.RefreshToken = nil
	u.RefreshTokenExpiryTime = nil
	r.users[id] = u
	return nil
}

func (r *fakeUserRepository) ClearExpiredRefreshTokens(ctx context.Context, now int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cleared int64
	for id, u := range r.users {
		if u.RefreshToken != nil && u.RefreshTokenExpiryTime != nil && *u.RefreshTokenExpiryTime <= now {
			u.RefreshToken = nil
			u.RefreshTokenExpiryTime = nil
			r.users[id] = u
			cleared++
		}
	}
	return cleared, nil
}

func (r *fakeUserRepository) get(id int64) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

type fakeRoleRepository struct {
	roles     map[int64]domain.Role
	userRoles map[int64][]domain.UserRole
}

func newFakeRoleRepository() *fakeRoleRepository {
	return &fakeRoleRepository{roles: map[int64]domain.Role{}, userRoles: map[int64][]domain.UserRole{}}
}

func (r *fakeRoleRepository) assign(userID int64, role domain.Role, active bool) {
	r.roles[role.ID] = role
	r.userRoles[userID] = append(r.userRoles[userID], domain.UserRole{UserID: userID, RoleID: role.ID, IsActive: active})
}

func (r *fakeRoleRepository) GetUserRolesByUserID(ctx context.Context, userID int64) ([]domain.UserRole, error) {
	return r.userRoles[userID], nil
}

func (r *fakeRoleRepository) GetRolesByIDs(ctx context.Context, ids []int64) ([]domain.Role, error) {
	var res []domain.Role
	for _, id := range ids {
		if role, ok := r.roles[id]; ok {
			res = append(res, role)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

type fakeSalesOrderRepository struct {
	mu           sync.Mutex
	orders       map[int64]domain.SalesOrder
	stages       []domain.SalesOrderStage
	beforeUpdate func()
}

func newFakeSalesOrderRepository(orders ...domain.SalesOrder) *fakeSalesOrderRepository {
	r := &fakeSalesOrderRepository{orders: map[int64]domain.SalesOrder{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeSalesOrderRepository) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo repository.SalesOrderRepository) error) error {
	return fn(ctx, r)
}

func (r *fakeSalesOrderRepository) GetSalesOrderByID(ctx context.Context, id int64) (domain.SalesOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.IsDeleted {
		return domain.SalesOrder{}, nil
	}
	return o, nil
}

func (r *fakeSalesOrderRepository) GetSalesOrderByIDForUpdate(ctx context.Context, id int64) (domain.SalesOrder, error) {
	return r.GetSalesOrderByID(ctx, id)
}

func (r *fakeSalesOrderRepository) UpdateSalesOrderStatus(ctx context.Context, data domain.SalesOrder, expectSubmitted bool, openOnly bool) (bool, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[data.ID]
	if !ok || o.IsDeleted || o.IsSubmitted != expectSubmitted {
		return false, nil
	}
	if openOnly && o.IsTerminal() {
		return false, nil
	}
	o.IsSubmitted = data.IsSubmitted
	o.SoStatus = data.SoStatus
	o.CurrentStatus = data.CurrentStatus
	o.UpdatedAt = data.UpdatedAt
	o.UpdatedBy = data.UpdatedBy
	r.orders[data.ID] = o
	return true, nil
}

func (r *fakeSalesOrderRepository) UpsertSalesOrderStage(ctx context.Context, data domain.SalesOrderStage) (domain.SalesOrderStage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.stages {
		if s.SalesOrderID == data.SalesOrderID && s.StageName == data.StageName {
			r.stages[i].IsApproved = data.IsApproved
			r.stages[i].UpdatedAt = data.UpdatedAt
			r.stages[i].UpdatedBy = data.UpdatedBy
			return r.stages[i], nil
		}
	}
	data.ID = int64(len(r.stages) + 1)
	r.stages = append(r.stages, data)
	return data, nil
}

func (r *fakeSalesOrderRepository) GetSalesOrderStages(ctx context.Context, salesOrderID int64) ([]domain.SalesOrderStage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []domain.SalesOrderStage
	for _, s := range r.stages {
		if s.SalesOrderID == salesOrderID {
			res = append(res, s)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].StageName < res[j].StageName })
	return res, nil
}

func (r *fakeSalesOrderRepository) order(id int64) domain.SalesOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[id]
}

type publishedEvent struct {
	EventType string
	Key       string
	Data      interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, key string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{EventType: eventType, Key: key, Data: data})
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var res []string
	for _, e := range p.events {
		res = append(res, e.EventType)
	}
	return res
}
