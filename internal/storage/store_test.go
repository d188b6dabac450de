package storage_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/servicebot/internal/content"
	"github.com/m3rciful/servicebot/internal/storage"
	"github.com/m3rciful/servicebot/internal/storage/storagetest"
)

func TestTextsUpsert(t *testing.T) {
	ctx := context.Background()
	s := storagetest.Open(t)

	_, err := s.GetText(ctx, content.TextWelcome)
	require.ErrorIs(t, err, content.ErrNotFound)

	require.NoError(t, s.PutText(ctx, content.TextWelcome, "hello"))
	require.NoError(t, s.PutText(ctx, content.TextWelcome, "hello again"))

	txt, err := s.GetText(ctx, content.TextWelcome)
	require.NoError(t, err)
	assert.Equal(t, "hello again", txt.Body)
}

func TestImagesUpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	s := storagetest.Open(t)

	require.NoError(t, s.PutImage(ctx, content.ImageFAQ, "AgAD-1"))
	require.NoError(t, s.PutImage(ctx, content.ImageFAQ, "AgAD-2"))
	img, err := s.GetImage(ctx, content.ImageFAQ)
	require.NoError(t, err)
	assert.Equal(t, "AgAD-2", img.FileRef)

	require.NoError(t, s.DeleteImage(ctx, content.ImageFAQ))
	assert.ErrorIs(t, s.DeleteImage(ctx, content.ImageFAQ), content.ErrNotFound)
}

func TestRouterFilesByConnection(t *testing.T) {
	ctx := context.Background()
	s := storagetest.Open(t)

	id1, err := s.AddRouterFile(ctx, content.RouterFile{Connection: content.ADSL, Name: "TP-Link AC10", FileRef: "doc-1", FileName: "ac10.bin"})
	require.NoError(t, err)
	id2, err := s.AddRouterFile(ctx, content.RouterFile{Connection: content.FTTH, Name: "Huawei HG8245", FileRef: "photo-1", Media: content.MediaPhoto})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	adsl, err := s.ListRouterFiles(ctx, content.ADSL)
	require.NoError(t, err)
	require.Len(t, adsl, 1)
	assert.Equal(t, content.MediaDocument, adsl[0].Media)
	assert.Equal(t, "ac10.bin", adsl[0].FileName)

	all, err := s.ListRouterFiles(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	f, err := s.GetRouterFile(ctx, id2)
	require.NoError(t, err)
	assert.Equal(t, content.MediaPhoto, f.Media)

	require.NoError(t, s.DeleteRouterFile(ctx, id1))
	assert.ErrorIs(t, s.DeleteRouterFile(ctx, id1), content.ErrNotFound)
	_, err = s.GetRouterFile(ctx, id1)
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestPackageFeaturesKeepOrder(t *testing.T) {
	ctx := context.Background()
	s := storagetest.Open(t)

	features := []string{"Unlimited traffic", "Free router", "24/7 support", "Static IP"}
	id, err := s.AddPackage(ctx, content.Package{Name: "Fiber 100", Price: "$30", Speed: "100 Mbps", Features: features})
	require.NoError(t, err)

	list, err := s.ListPackages(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, features, list[0].Features)

	p, err := s.GetPackage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, features, p.Features)

	id2, err := s.AddPackage(ctx, content.Package{Name: "Basic"})
	require.NoError(t, err)
	p, err = s.GetPackage(ctx, id2)
	require.NoError(t, err)
	assert.Empty(t, p.Features)
}

func TestIDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	s := storagetest.Open(t)

	id1, err := s.AddFAQ(ctx, content.FAQItem{Question: "q1", Answer: "a1"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteFAQ(ctx, id1))
	id2, err := s.AddFAQ(ctx, content.FAQItem{Question: "q2", Answer: "a2"})
	require.NoError(t, err)
	assert.Greater(t, id2, id1)
}

func TestAdmins(t *testing.T) {
	ctx := context.Background()
	s := storagetest.Open(t)

	require.NoError(t, s.AddAdmin(ctx, content.AdminEntry{UserID: 10, DisplayName: "Owner"}))
	assert.ErrorIs(t, s.AddAdmin(ctx, content.AdminEntry{UserID: 10}), content.ErrExists)
	require.NoError(t, s.AddAdmin(ctx, content.AdminEntry{UserID: 20, DisplayName: "Second"}))

	admins, err := s.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 2)

	a, err := s.GetAdmin(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, "Second", a.DisplayName)

	require.NoError(t, s.DeleteAdmin(ctx, 20))
	assert.ErrorIs(t, s.DeleteAdmin(ctx, 20), content.ErrNotFound)
}

func TestUsageAndStats(t *testing.T) {
	ctx := context.Background()
	var tick atomic.Int64
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	s := storagetest.Open(t, storage.WithClock(func() time.Time {
		return base.Add(time.Duration(tick.Add(1)) * time.Minute)
	}))

	require.NoError(t, s.BumpUsage(ctx, 1, content.Profile{FirstName: "Ann"}))
	require.NoError(t, s.BumpUsage(ctx, 2, content.Profile{FirstName: "Bob"}))
	require.NoError(t, s.BumpUsage(ctx, 1, content.Profile{FirstName: "Ann", Username: "ann"}))

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	users, err := s.ListUsers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].UserID, "most recent first")
	assert.Equal(t, int64(2), users[0].UsageCount)
	assert.Equal(t, "ann", users[0].Profile.Username)
	assert.True(t, users[0].LastSeen.After(users[0].FirstSeen))

	top, err := s.ListUsers(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	_, err = s.AddRouterFile(ctx, content.RouterFile{Connection: content.ADSL, Name: "a", FileRef: "f"})
	require.NoError(t, err)
	require.NoError(t, s.PutText(ctx, content.TextContact, "call us"))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Users)
	assert.Equal(t, int64(3), st.Usage)
	assert.Equal(t, 1, st.ADSLFiles)
	assert.Equal(t, 1, st.Files())
	assert.Equal(t, 1, st.Texts)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s := storagetest.Open(t)

	_, err := s.GetSetting(ctx, "maintenance")
	assert.ErrorIs(t, err, content.ErrNotFound)
	require.NoError(t, s.PutSetting(ctx, "maintenance", "on"))
	require.NoError(t, s.PutSetting(ctx, "maintenance", "off"))
	v, err := s.GetSetting(ctx, "maintenance")
	require.NoError(t, err)
	assert.Equal(t, "off", v)
}
