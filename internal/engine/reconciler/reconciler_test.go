package reconciler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NoSpawnn/bow/internal/adapters/prompt"
	"github.com/NoSpawnn/bow/internal/adapters/telemetry"
	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/NoSpawnn/bow/internal/core/ports"
	"github.com/NoSpawnn/bow/internal/core/ports/mocks"
	"github.com/NoSpawnn/bow/internal/engine/reconciler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// memoryBackend keeps installed items in insertion order and records every call.
type memoryBackend struct {
	items []domain.AppItem
	calls []string
}

func (m *memoryBackend) Installed(context.Context) ([]domain.AppItem, error) {
	m.calls = append(m.calls, "installed")
	return append([]domain.AppItem(nil), m.items...), nil
}

func (m *memoryBackend) Install(_ context.Context, items []domain.AppItem) error {
	m.calls = append(m.calls, "install")
	m.items = append(m.items, items...)
	return nil
}

func (m *memoryBackend) Remove(_ context.Context, items []domain.AppItem) error {
	m.calls = append(m.calls, "remove")
	drop := make(map[string]struct{}, len(items))
	for _, item := range items {
		drop[item.Key()] = struct{}{}
	}
	kept := m.items[:0]
	for _, item := range m.items {
		if _, ok := drop[item.Key()]; !ok {
			kept = append(kept, item)
		}
	}
	m.items = kept
	return nil
}

func apps(ids ...string) []domain.AppItem {
	out := make([]domain.AppItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.AppItem{ID: id, Scope: domain.ScopeUser})
	}
	return out
}

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

func quietRenderer(ctrl *gomock.Controller) *mocks.MockRenderer {
	r := mocks.NewMockRenderer(ctrl)
	r.EXPECT().RenderPlan(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	return r
}

func newReconciler(
	t *testing.T,
	desired []domain.AppItem,
	backend ports.Backend[domain.AppItem],
	confirmer ports.Confirmer,
) *reconciler.Reconciler[domain.AppItem] {
	t.Helper()
	ctrl := gomock.NewController(t)
	return reconciler.New("flatpak", desired, backend, confirmer,
		quietRenderer(ctrl), quietLogger(ctrl), telemetry.NewNoOp())
}

func TestEnsure_ConvergesOntoDesired(t *testing.T) {
	backend := &memoryBackend{items: apps("org.old.App", "org.keep.App")}
	r := newReconciler(t, apps("org.keep.App", "org.new.App"), backend, prompt.Always(true))

	require.NoError(t, r.Ensure(context.Background(), domain.EnsureOptions{}))

	assert.ElementsMatch(t, []string{"org.keep.App", "org.new.App"}, domain.Keys(backend.items))
	assert.Equal(t, []string{"installed", "install", "remove"}, backend.calls, "install pass runs before remove pass")
	assert.Equal(t, reconciler.StatusApplied, r.Status(domain.ActionInstall))
	assert.Equal(t, reconciler.StatusApplied, r.Status(domain.ActionRemove))
}

func TestEnsure_Idempotent(t *testing.T) {
	backend := &memoryBackend{items: apps("org.old.App")}
	r := newReconciler(t, apps("org.a.App", "org.b.App"), backend, prompt.Always(true))

	require.NoError(t, r.Ensure(context.Background(), domain.EnsureOptions{}))
	backend.calls = nil

	require.NoError(t, r.Ensure(context.Background(), domain.EnsureOptions{}))
	assert.Equal(t, []string{"installed"}, backend.calls, "second run must not mutate")
	assert.Equal(t, reconciler.StatusUpToDate, r.Status(domain.ActionInstall))
	assert.Equal(t, reconciler.StatusUpToDate, r.Status(domain.ActionRemove))
}

func TestEnsure_DisjointPasses(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend[domain.AppItem](ctrl)

	installed := apps("org.shared.App", "org.stale.App")
	desired := apps("org.shared.App", "org.fresh.App")

	var installedKeys, removedKeys []string
	gomock.InOrder(
		backend.EXPECT().Installed(gomock.Any()).Return(installed, nil),
		backend.EXPECT().Install(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, items []domain.AppItem) error {
			installedKeys = domain.Keys(items)
			return nil
		}),
		backend.EXPECT().Remove(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, items []domain.AppItem) error {
			removedKeys = domain.Keys(items)
			return nil
		}),
	)

	r := reconciler.New("flatpak", desired, backend, prompt.Always(true),
		quietRenderer(ctrl), quietLogger(ctrl), telemetry.NewNoOp())
	require.NoError(t, r.Ensure(context.Background(), domain.EnsureOptions{}))

	assert.Equal(t, []string{"org.fresh.App"}, installedKeys)
	assert.Equal(t, []string{"org.stale.App"}, removedKeys)
	for _, key := range installedKeys {
		assert.NotContains(t, removedKeys, key)
	}
}

func TestEnsure_DeclinedInstallStillOffersRemoval(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := &memoryBackend{items: apps("org.stale.App")}

	confirmer := mocks.NewMockConfirmer(ctrl)
	gomock.InOrder(
		confirmer.EXPECT().Confirm("install 1 package with flatpak?").Return(false),
		confirmer.EXPECT().Confirm("remove 1 package with flatpak?").Return(true),
	)

	r := reconciler.New("flatpak", apps("org.new.App"), backend, confirmer,
		quietRenderer(ctrl), quietLogger(ctrl), telemetry.NewNoOp())
	require.NoError(t, r.Ensure(context.Background(), domain.EnsureOptions{}))

	assert.Empty(t, backend.items)
	assert.Equal(t, []string{"installed", "remove"}, backend.calls)
	assert.Equal(t, reconciler.StatusDeclined, r.Status(domain.ActionInstall))
	assert.Equal(t, reconciler.StatusApplied, r.Status(domain.ActionRemove))
	assert.Equal(t, "flatpak: install Declined, remove Applied", r.Summary())
}

func TestEnsure_EmptySetsSkipConfirmation(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := &memoryBackend{items: apps("org.a.App")}

	// No Confirm or RenderPlan expectations: calling either fails the test.
	confirmer := mocks.NewMockConfirmer(ctrl)
	renderer := mocks.NewMockRenderer(ctrl)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug("1 package currently installed, 1 desired")
	log.EXPECT().Info("nothing to install")
	log.EXPECT().Info("nothing to remove")

	r := reconciler.New("flatpak", apps("org.a.App"), backend, confirmer, renderer, log, telemetry.NewNoOp())
	require.NoError(t, r.Ensure(context.Background(), domain.EnsureOptions{}))
}

func TestEnsure_RendersBothPlans(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := &memoryBackend{items: apps("org.stale.App")}

	renderer := mocks.NewMockRenderer(ctrl)
	gomock.InOrder(
		renderer.EXPECT().RenderPlan("flatpak", domain.ActionInstall, []string{"org.new.App"}),
		renderer.EXPECT().RenderPlan("flatpak", domain.ActionRemove, []string{"org.stale.App"}),
	)

	r := reconciler.New("flatpak", apps("org.new.App"), backend, prompt.Always(true),
		renderer, quietLogger(ctrl), telemetry.NewNoOp())
	require.NoError(t, r.Ensure(context.Background(), domain.EnsureOptions{}))
}

func TestEnsure_DryRunDoesNotMutate(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := &memoryBackend{items: apps("org.stale.App")}
	confirmer := mocks.NewMockConfirmer(ctrl)

	r := reconciler.New("flatpak", apps("org.new.App"), backend, confirmer,
		quietRenderer(ctrl), quietLogger(ctrl), telemetry.NewNoOp())
	require.NoError(t, r.Ensure(context.Background(), domain.EnsureOptions{DryRun: true, AssumeYes: true}))

	assert.Equal(t, []string{"installed"}, backend.calls)
	assert.Equal(t, reconciler.StatusPlanned, r.Status(domain.ActionInstall))
	assert.Equal(t, reconciler.StatusPlanned, r.Status(domain.ActionRemove))
}

func TestEnsure_AssumeYesSkipsPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := &memoryBackend{}
	confirmer := mocks.NewMockConfirmer(ctrl)

	r := reconciler.New("flatpak", apps("org.new.App"), backend, confirmer,
		quietRenderer(ctrl), quietLogger(ctrl), telemetry.NewNoOp())
	require.NoError(t, r.Ensure(context.Background(), domain.EnsureOptions{AssumeYes: true}))

	assert.Equal(t, []string{"org.new.App"}, domain.Keys(backend.items))
}

func TestEnsure_QueryFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend[domain.AppItem](ctrl)
	queryErr := errors.New("flatpak not found")
	backend.EXPECT().Installed(gomock.Any()).Return(nil, queryErr)

	r := reconciler.New("flatpak", apps("org.new.App"), backend, mocks.NewMockConfirmer(ctrl),
		mocks.NewMockRenderer(ctrl), quietLogger(ctrl), telemetry.NewNoOp())
	err := r.Ensure(context.Background(), domain.EnsureOptions{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, queryErr))
	assert.Equal(t, reconciler.StatusPending, r.Status(domain.ActionInstall))
}

func TestEnsure_InstallFailureSkipsRemoval(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend[domain.AppItem](ctrl)
	installErr := errors.Join(errors.New("exit status 1"), domain.ErrCommandFailed)

	backend.EXPECT().Installed(gomock.Any()).Return(apps("org.stale.App"), nil)
	backend.EXPECT().Install(gomock.Any(), gomock.Any()).Return(installErr)

	r := reconciler.New("flatpak", apps("org.new.App"), backend, prompt.Always(true),
		quietRenderer(ctrl), quietLogger(ctrl), telemetry.NewNoOp())
	err := r.Ensure(context.Background(), domain.EnsureOptions{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCommandFailed))
	assert.Equal(t, reconciler.StatusFailed, r.Status(domain.ActionInstall))
	assert.Equal(t, reconciler.StatusPending, r.Status(domain.ActionRemove))
}

func TestEnsure_RecordsTelemetryVertex(t *testing.T) {
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	vtx := mocks.NewMockVertex(ctrl)

	ctx := context.Background()
	tel.EXPECT().Record(gomock.Any(), "flatpak").Return(ctx, vtx)
	vtx.EXPECT().Cached()
	vtx.EXPECT().Complete(nil)

	backend := &memoryBackend{items: apps("org.a.App")}
	r := reconciler.New("flatpak", apps("org.a.App"), backend, prompt.Always(true),
		quietRenderer(ctrl), quietLogger(ctrl), tel)
	require.NoError(t, r.Ensure(ctx, domain.EnsureOptions{}))
}

func TestReconciler_SummaryBeforeEnsure(t *testing.T) {
	r := newReconciler(t, apps("org.a.App"), &memoryBackend{}, prompt.Always(true))
	assert.Equal(t, "flatpak: install Pending, remove Pending", r.Summary())

	require.NoError(t, r.Ensure(context.Background(), domain.EnsureOptions{DryRun: true}))
	assert.Equal(t, "flatpak: install Planned, remove UpToDate", r.Summary())
}

func TestReconciler_Name(t *testing.T) {
	r := newReconciler(t, nil, &memoryBackend{}, prompt.Always(false))
	assert.Equal(t, "flatpak", r.Name())

	var _ ports.Provider = r
}
