package gravityview

import (
	"context"

	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
	domview "github.com/GravityKit/GravityView-sub009/internal/domain/view"
	healthuc "github.com/GravityKit/GravityView-sub009/internal/usecase/health"
	"github.com/GravityKit/GravityView-sub009/internal/usecase/searchwidget"
)

// --- widgetUseCase mock ---

type mockWidgetUC struct {
	renderFn        func(ctx context.Context, viewID int, req searchfield.Request) ([]searchfield.TemplateData, error)
	legacyFn        func(ctx context.Context, viewID int) ([]searchfield.LegacyFormat, error)
	configurationFn func(ctx context.Context, viewID int) ([]searchfield.Configuration, error)
	configureFn     func(ctx context.Context, viewID int, cfgs []searchfield.Configuration) ([]searchfield.Configuration, error)
	saveViewFn      func(ctx context.Context, v domview.View) error
	saveUsersFn     func(ctx context.Context, users []domview.User) error
	deleteViewFn    func(ctx context.Context, viewID int) error
	availableFn     func(ctx context.Context, formID int) ([]searchwidget.Available, error)
}

func (m *mockWidgetUC) Render(
	ctx context.Context, viewID int, req searchfield.Request,
) ([]searchfield.TemplateData, error) {
	return m.renderFn(ctx, viewID, req)
}

func (m *mockWidgetUC) Legacy(ctx context.Context, viewID int) ([]searchfield.LegacyFormat, error) {
	return m.legacyFn(ctx, viewID)
}

func (m *mockWidgetUC) Configuration(ctx context.Context, viewID int) ([]searchfield.Configuration, error) {
	return m.configurationFn(ctx, viewID)
}

func (m *mockWidgetUC) Configure(
	ctx context.Context, viewID int, cfgs []searchfield.Configuration,
) ([]searchfield.Configuration, error) {
	return m.configureFn(ctx, viewID, cfgs)
}

func (m *mockWidgetUC) SaveView(ctx context.Context, v domview.View) error {
	return m.saveViewFn(ctx, v)
}

func (m *mockWidgetUC) DeleteView(ctx context.Context, viewID int) error {
	return m.deleteViewFn(ctx, viewID)
}

func (m *mockWidgetUC) SaveUsers(ctx context.Context, users []domview.User) error {
	return m.saveUsersFn(ctx, users)
}

func (m *mockWidgetUC) AvailableFields(ctx context.Context, formID int) ([]searchwidget.Available, error) {
	return m.availableFn(ctx, formID)
}

// --- entryUseCase mock ---

type mockEntryUC struct {
	saveFormFn func(ctx context.Context, form domview.Form) error
	ingestFn   func(ctx context.Context, formID int, entries []domview.Entry) (int, error)
}

func (m *mockEntryUC) SaveForm(ctx context.Context, form domview.Form) error {
	return m.saveFormFn(ctx, form)
}

func (m *mockEntryUC) Ingest(ctx context.Context, formID int, entries []domview.Entry) (int, error) {
	return m.ingestFn(ctx, formID, entries)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(widgetSvc widgetUseCase, entrySvc entryUseCase) *Client {
	return &Client{widgetSvc: widgetSvc, entrySvc: entrySvc}
}
