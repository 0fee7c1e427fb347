package maintenance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/isandoval/librarian-be/internal/database"
	"github.com/isandoval/librarian-be/internal/models"
	"github.com/isandoval/librarian-be/internal/services"
	"github.com/isandoval/librarian-be/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_Sweep(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	uploadDir := t.TempDir()
	covers, err := storage.NewCoverStore(uploadDir)
	require.NoError(t, err)
	bookSvc := services.NewBookService(db, covers, nil, nil)

	// A referenced cover, attached to a real book.
	book, err := bookSvc.CreateBook(models.BookInput{
		Title: "T", Author: "A", Genre: "G", Year: 2020, Description: "D",
	}, &services.CoverUpload{Filename: "kept.png", Reader: strings.NewReader("kept")})
	require.NoError(t, err)

	// An orphan old enough to sweep.
	orphanPath, err := covers.Save("orphan.png", strings.NewReader("orphan"))
	require.NoError(t, err)
	orphanName := strings.TrimPrefix(orphanPath, storage.ServePrefix+"/")
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(uploadDir, orphanName), old, old))

	// A fresh orphan that must survive the minimum-age guard.
	freshPath, err := covers.Save("fresh.png", strings.NewReader("fresh"))
	require.NoError(t, err)

	sweeper, err := NewSweeper(bookSvc, covers, "@daily")
	require.NoError(t, err)
	sweeper.Sweep()

	remaining, err := covers.List()
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
	_, keptOK := remaining[book.CoverImage]
	_, freshOK := remaining[freshPath]
	_, orphanOK := remaining[orphanPath]
	assert.True(t, keptOK, "referenced cover must survive")
	assert.True(t, freshOK, "fresh file must survive the age guard")
	assert.False(t, orphanOK, "old orphan must be removed")

	// Also make sure the referenced file ages out of the guard and still
	// survives the next sweep.
	keptName := strings.TrimPrefix(book.CoverImage, storage.ServePrefix+"/")
	require.NoError(t, os.Chtimes(filepath.Join(uploadDir, keptName), old, old))
	sweeper.Sweep()
	remaining, err = covers.List()
	require.NoError(t, err)
	_, keptOK = remaining[book.CoverImage]
	assert.True(t, keptOK)
}
