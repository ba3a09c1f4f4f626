package searchwidget

import (
	"context"

	domview "github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

// ViewRepository defines the storage contract for views, forms and users.
type ViewRepository interface {
	GetView(ctx context.Context, id int) (*domview.View, error)
	SaveView(ctx context.Context, v domview.View) error
	DeleteView(ctx context.Context, id int) error
	GetForm(ctx context.Context, id int) (*domview.Form, error)
	Users(ctx context.Context) ([]domview.User, error)
	SaveUsers(ctx context.Context, users []domview.User) error
}
