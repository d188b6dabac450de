package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/servicebot/internal/content"
)

type fakeSource struct {
	admins   []content.AdminEntry
	listErr  error
	settings map[string]string
	putErr   error
}

func (f *fakeSource) ListAdmins(context.Context) ([]content.AdminEntry, error) {
	return f.admins, f.listErr
}

func (f *fakeSource) GetSetting(_ context.Context, key string) (string, error) {
	v, ok := f.settings[key]
	if !ok {
		return "", content.ErrNotFound
	}
	return v, nil
}

func (f *fakeSource) PutSetting(_ context.Context, key, value string) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.settings == nil {
		f.settings = map[string]string{}
	}
	f.settings[key] = value
	return nil
}

func TestGateReload(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{admins: []content.AdminEntry{{UserID: 1}}}
	g := New(src, Options{})

	assert.False(t, g.IsAdmin(1), "snapshot is empty until reload")
	require.NoError(t, g.Reload(ctx))
	assert.True(t, g.IsAdmin(1))
	assert.Equal(t, 1, g.AdminCount())

	src.admins = append(src.admins, content.AdminEntry{UserID: 2})
	assert.False(t, g.IsAdmin(2), "no implicit refresh")
	require.NoError(t, g.Reload(ctx))
	assert.True(t, g.IsAdmin(2))

	src.listErr = errors.New("db down")
	require.Error(t, g.Reload(ctx))
	assert.True(t, g.IsAdmin(2), "failed reload keeps the previous snapshot")
}

func TestGateIsBlocked(t *testing.T) {
	ctx := context.Background()
	g := New(&fakeSource{admins: []content.AdminEntry{{UserID: 1}}}, Options{})
	require.NoError(t, g.Reload(ctx))

	assert.False(t, g.IsBlocked(5))
	require.NoError(t, g.SetMaintenance(ctx, true))
	assert.True(t, g.Maintenance())
	assert.True(t, g.IsBlocked(5))
	assert.False(t, g.IsBlocked(1))

	require.NoError(t, g.SetMaintenance(ctx, false))
	assert.False(t, g.IsBlocked(5))
}

func TestGateIndependentInstances(t *testing.T) {
	ctx := context.Background()
	a := New(&fakeSource{}, Options{})
	b := New(&fakeSource{}, Options{})
	require.NoError(t, a.SetMaintenance(ctx, true))
	assert.False(t, b.Maintenance())
}

func TestGatePersistence(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	g := New(src, Options{PersistMaintenance: true})
	require.NoError(t, g.SetMaintenance(ctx, true))
	assert.Equal(t, "on", src.settings[MaintenanceSetting])

	restored := New(src, Options{PersistMaintenance: true})
	require.NoError(t, restored.Restore(ctx))
	assert.True(t, restored.Maintenance())

	src.putErr = errors.New("read only")
	require.Error(t, g.SetMaintenance(ctx, false))
	assert.True(t, g.Maintenance(), "failed persist leaves the flag unchanged")
}

func TestGateRestoreWithoutPersistence(t *testing.T) {
	src := &fakeSource{settings: map[string]string{MaintenanceSetting: "on"}}
	g := New(src, Options{})
	require.NoError(t, g.Restore(context.Background()))
	assert.False(t, g.Maintenance())
}
