// Package steamtest provides an in-memory API implementation for tests.
package steamtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/modshipapp/modship/internal/domain"
	"github.com/modshipapp/modship/internal/steam"
)

// FakeAPI is a scriptable, in-memory stand-in for the native bindings.
// Zero value behaves like a healthy client with a signed-in user.
type FakeAPI struct {
	mu sync.Mutex

	// Failure injection. Each slice is consumed call by call; nil entries
	// and calls past the end succeed.
	InitErrs   []error
	CreateErrs []error
	SubmitErrs []error
	DeleteErrs []error
	ListErrs   []error
	UserErr    error
	InitDelay  time.Duration

	createCalls, submitCalls, deleteCalls, listCalls int

	// State.
	User       *domain.SteamUser
	Items      []steam.RawItem
	nextItemID uint64

	// Call log.
	InitCalls     int
	ShutdownCalls int
	Updates       []steam.ItemUpdate
	Deleted       []uint64
	OverlayURLs   []string
}

var _ steam.API = (*FakeAPI)(nil)

// NewFakeAPI returns a fake with a default signed-in user.
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		User:       &domain.SteamUser{ID: "76561197960287930", Name: "gabe"},
		nextItemID: 3000000000,
	}
}

func (f *FakeAPI) Init(appID uint32) error {
	f.mu.Lock()
	call := f.InitCalls
	f.InitCalls++
	delay := f.InitDelay
	var err error
	if call < len(f.InitErrs) {
		err = f.InitErrs[call]
	}
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return err
}

func (f *FakeAPI) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ShutdownCalls++
}

func (f *FakeAPI) CurrentUser() (*domain.SteamUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UserErr != nil {
		return nil, f.UserErr
	}
	if f.User == nil {
		return nil, fmt.Errorf("steamworks: no global user present, is a user signed in?")
	}
	return f.User, nil
}

func takeErr(errs []error, call *int) error {
	i := *call
	*call++
	if i < len(errs) {
		return errs[i]
	}
	return nil
}

func (f *FakeAPI) CreateItem(_ context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := takeErr(f.CreateErrs, &f.createCalls); err != nil {
		return 0, err
	}
	f.nextItemID++
	f.Items = append(f.Items, steam.RawItem{ID: f.nextItemID, Visibility: 2})
	return f.nextItemID, nil
}

func (f *FakeAPI) SubmitUpdate(_ context.Context, update steam.ItemUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := takeErr(f.SubmitErrs, &f.submitCalls); err != nil {
		return err
	}
	f.Updates = append(f.Updates, update)

	for i := range f.Items {
		if f.Items[i].ID != update.ItemID {
			continue
		}
		if update.Title != nil {
			f.Items[i].Title = *update.Title
		}
		if update.Description != nil {
			f.Items[i].Description = *update.Description
		}
		if update.Tags != nil {
			f.Items[i].Tags = update.Tags
		}
		if update.Visibility != nil {
			f.Items[i].Visibility = update.Visibility.RemoteCode()
		}
		f.Items[i].UpdatedAt = uint32(time.Now().Unix()) //#nosec G115 -- test clock
	}
	return nil
}

func (f *FakeAPI) DeleteItem(_ context.Context, itemID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := takeErr(f.DeleteErrs, &f.deleteCalls); err != nil {
		return err
	}
	f.Deleted = append(f.Deleted, itemID)
	for i, item := range f.Items {
		if item.ID == itemID {
			f.Items = append(f.Items[:i], f.Items[i+1:]...)
			return nil
		}
	}
	return &steam.ResultError{Code: steam.ResultFileNotFound}
}

func (f *FakeAPI) ListUserItems(_ context.Context) ([]steam.RawItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := takeErr(f.ListErrs, &f.listCalls); err != nil {
		return nil, err
	}
	out := make([]steam.RawItem, len(f.Items))
	copy(out, f.Items)
	return out, nil
}

func (f *FakeAPI) ActivateOverlayToURL(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.OverlayURLs = append(f.OverlayURLs, url)
}

// Item returns a copy of the stored item by ID for assertions.
func (f *FakeAPI) Item(itemID uint64) (steam.RawItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return steam.RawItem{}, false
}
