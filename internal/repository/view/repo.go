package view

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/GravityKit/GravityView-sub009/internal/db"
	"github.com/GravityKit/GravityView-sub009/internal/domain"
	domview "github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

var (
	viewKeyPrefix = domain.KeyPrefix + "view:"
	formKeyPrefix = domain.KeyPrefix + "form:"
	usersKey      = domain.KeyPrefix + "users"
)

// store is the consumer interface for views, forms and users (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Repo persists views, forms and the user directory as JSON documents.
type Repo struct {
	store store
}

// New creates a view repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SaveView stores the view. The attached form is not persisted with it.
func (r *Repo) SaveView(ctx context.Context, v domview.View) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}
	v.Form = nil
	return r.put(ctx, viewKey(v.ID), v)
}

// GetView loads a view and attaches its form when one is stored.
func (r *Repo) GetView(ctx context.Context, id int) (*domview.View, error) {
	var v domview.View
	if err := r.get(ctx, viewKey(id), &v); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrViewNotFound
		}
		return nil, fmt.Errorf("get view %d: %w", id, err)
	}

	form, err := r.GetForm(ctx, v.FormID)
	switch {
	case err == nil:
		v.Form = form
	case errors.Is(err, domain.ErrFormNotFound):
	default:
		return nil, err
	}
	return &v, nil
}

// DeleteView removes a view.
func (r *Repo) DeleteView(ctx context.Context, id int) error {
	if err := r.store.Del(ctx, viewKey(id)); err != nil {
		return fmt.Errorf("delete view %d: %w", id, err)
	}
	return nil
}

// SaveForm stores a form definition.
func (r *Repo) SaveForm(ctx context.Context, f domview.Form) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}
	return r.put(ctx, formKey(f.ID), f)
}

// GetForm loads a form definition.
func (r *Repo) GetForm(ctx context.Context, id int) (*domview.Form, error) {
	var f domview.Form
	if err := r.get(ctx, formKey(id), &f); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrFormNotFound
		}
		return nil, fmt.Errorf("get form %d: %w", id, err)
	}
	return &f, nil
}

// SaveUsers replaces the user directory.
func (r *Repo) SaveUsers(ctx context.Context, users []domview.User) error {
	for _, u := range users {
		if u.ID == "" {
			return fmt.Errorf("%w: user id is required", domain.ErrInvalidConfiguration)
		}
	}
	sorted := make([]domview.User, len(users))
	copy(sorted, users)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return r.put(ctx, usersKey, sorted)
}

// Users returns the user directory sorted by id. A missing directory is empty.
func (r *Repo) Users(ctx context.Context) ([]domview.User, error) {
	var users []domview.User
	if err := r.get(ctx, usersKey, &users); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domview.User{}, nil
		}
		return nil, fmt.Errorf("get users: %w", err)
	}
	return users, nil
}

func (r *Repo) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *Repo) get(ctx context.Context, key string, v any) error {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

func viewKey(id int) string { return viewKeyPrefix + strconv.Itoa(id) }
func formKey(id int) string { return formKeyPrefix + strconv.Itoa(id) }
