package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/GravityKit/GravityView-sub009/internal/domain"
	domview "github.com/GravityKit/GravityView-sub009/internal/domain/view"
	entryrepo "github.com/GravityKit/GravityView-sub009/internal/repository/entry"
	"github.com/GravityKit/GravityView-sub009/internal/usecase/searchwidget"
)

// fixture is a self-contained world: one form, one view over it, the site's
// users and the form's entries.
type fixture struct {
	Form     domview.Form    `yaml:"form"`
	View     domview.View    `yaml:"view"`
	UserList []domview.User  `yaml:"users"`
	Entries  []domview.Entry `yaml:"entries"`

	entries *entryrepo.MemoryRepo
}

var _ searchwidget.ViewRepository = (*fixture)(nil)

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return parseFixture(data)
}

func parseFixture(data []byte) (*fixture, error) {
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if fx.View.FormID == 0 {
		fx.View.FormID = fx.Form.ID
	}
	if err := fx.Form.Validate(); err != nil {
		return nil, fmt.Errorf("fixture form: %w", err)
	}
	if err := fx.View.Validate(); err != nil {
		return nil, fmt.Errorf("fixture view: %w", err)
	}
	if fx.View.FormID != fx.Form.ID {
		return nil, fmt.Errorf("fixture view %d points at form %d, fixture holds form %d", fx.View.ID, fx.View.FormID, fx.Form.ID)
	}

	fx.entries = entryrepo.NewMemory()
	for _, e := range fx.Entries {
		if e.FormID == 0 {
			e.FormID = fx.Form.ID
		}
		if err := fx.entries.Save(context.Background(), e); err != nil {
			return nil, fmt.Errorf("fixture entry %d: %w", e.ID, err)
		}
	}
	return &fx, nil
}

func (fx *fixture) service() *searchwidget.Service {
	return searchwidget.New(fx, fx.entries)
}

func (fx *fixture) GetView(_ context.Context, id int) (*domview.View, error) {
	if id != fx.View.ID {
		return nil, domain.ErrViewNotFound
	}
	v := fx.View
	form := fx.Form
	v.Form = &form
	return &v, nil
}

func (fx *fixture) SaveView(_ context.Context, v domview.View) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}
	v.Form = nil
	fx.View = v
	return nil
}

func (fx *fixture) DeleteView(_ context.Context, id int) error {
	if id != fx.View.ID {
		return domain.ErrViewNotFound
	}
	fx.View = domview.View{}
	return nil
}

func (fx *fixture) GetForm(_ context.Context, id int) (*domview.Form, error) {
	if id != fx.Form.ID {
		return nil, domain.ErrFormNotFound
	}
	form := fx.Form
	return &form, nil
}

func (fx *fixture) Users(context.Context) ([]domview.User, error) {
	return fx.UserList, nil
}

func (fx *fixture) SaveUsers(_ context.Context, users []domview.User) error {
	fx.UserList = users
	return nil
}
