package content

import "context"

// Store is the persistence boundary of the catalogue.
// Getters and deleters return ErrNotFound for missing keys.
type Store interface {
	GetText(ctx context.Context, key TextKey) (Text, error)
	PutText(ctx context.Context, key TextKey, body string) error

	GetImage(ctx context.Context, key ImageKey) (Image, error)
	PutImage(ctx context.Context, key ImageKey, fileRef string) error
	DeleteImage(ctx context.Context, key ImageKey) error

	AddRouterFile(ctx context.Context, f RouterFile) (int64, error)
	GetRouterFile(ctx context.Context, id int64) (RouterFile, error)
	ListRouterFiles(ctx context.Context, conn Connection) ([]RouterFile, error)
	DeleteRouterFile(ctx context.Context, id int64) error

	AddPackage(ctx context.Context, p Package) (int64, error)
	GetPackage(ctx context.Context, id int64) (Package, error)
	ListPackages(ctx context.Context) ([]Package, error)
	DeletePackage(ctx context.Context, id int64) error

	AddFAQ(ctx context.Context, item FAQItem) (int64, error)
	GetFAQ(ctx context.Context, id int64) (FAQItem, error)
	ListFAQ(ctx context.Context) ([]FAQItem, error)
	DeleteFAQ(ctx context.Context, id int64) error

	AddAdmin(ctx context.Context, a AdminEntry) error
	GetAdmin(ctx context.Context, userID int64) (AdminEntry, error)
	ListAdmins(ctx context.Context) ([]AdminEntry, error)
	DeleteAdmin(ctx context.Context, userID int64) error

	// BumpUsage inserts the user or increments their counter and refreshes the profile.
	BumpUsage(ctx context.Context, userID int64, p Profile) error
	CountUsers(ctx context.Context) (int, error)
	// ListUsers returns users by most recent activity; limit <= 0 returns all.
	ListUsers(ctx context.Context, limit int) ([]UserStat, error)
	Stats(ctx context.Context) (Stats, error)

	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error
}
