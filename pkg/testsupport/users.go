package testsupport

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/goliatone/go-userform/pkg/model"
)

// Call records one UserClient invocation.
type Call struct {
	Op   string
	ID   model.ID
	User model.User
}

// FakeUsers is an in-memory UserClient. Errors set on the exported fields are
// returned by the matching operation; hooks run before the operation touches
// the store, which lets tests hold a call open.
type FakeUsers struct {
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	BeforeList func(ctx context.Context)

	mu    sync.Mutex
	seq   int
	users map[model.ID]model.User
	calls []Call
}

// NewFakeUsers seeds the store. Seeded users without an id get one assigned.
func NewFakeUsers(seed ...model.User) *FakeUsers {
	f := &FakeUsers{users: map[model.ID]model.User{}}
	for _, user := range seed {
		if user.ID == "" {
			user.ID = f.nextID()
		}
		f.users[user.ID] = user
	}
	return f
}

func (f *FakeUsers) nextID() model.ID {
	f.seq++
	return model.ID(strconv.Itoa(f.seq))
}

func (f *FakeUsers) record(call Call) {
	f.calls = append(f.calls, call)
}

// List returns users ordered by id.
func (f *FakeUsers) List(ctx context.Context) ([]model.User, error) {
	if f.BeforeList != nil {
		f.BeforeList(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: "list"})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]model.User, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].ID.String())
		b, _ := strconv.Atoi(out[j].ID.String())
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Create stores user under a fresh id.
func (f *FakeUsers) Create(_ context.Context, user model.User) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: "create", User: user})
	if f.CreateErr != nil {
		return model.User{}, f.CreateErr
	}
	user.ID = f.nextID()
	f.users[user.ID] = user
	return user, nil
}

// Update replaces the stored user.
func (f *FakeUsers) Update(_ context.Context, id model.ID, user model.User) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: "update", ID: id, User: user})
	if f.UpdateErr != nil {
		return model.User{}, f.UpdateErr
	}
	if _, ok := f.users[id]; !ok {
		return model.User{}, fmt.Errorf("fake users: %s not found", id)
	}
	user.ID = id
	f.users[id] = user
	return user, nil
}

// Delete removes the stored user.
func (f *FakeUsers) Delete(_ context.Context, id model.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: "delete", ID: id})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.users, id)
	return nil
}

// Calls returns the recorded invocations.
func (f *FakeUsers) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Ops returns just the operation names of the recorded calls.
func (f *FakeUsers) Ops() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, call := range calls {
		out[i] = call.Op
	}
	return out
}

// Stored returns a stored user by id.
func (f *FakeUsers) Stored(id model.ID) (model.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	return user, ok
}

// Notifications records every message passed to Notify.
type Notifications struct {
	mu       sync.Mutex
	messages []string
}

// Notify appends message.
func (n *Notifications) Notify(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

// Messages returns the recorded messages.
func (n *Notifications) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}
