package filetransfer

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"psb-dashboard/internal/common/config"
	"psb-dashboard/internal/common/logger"
)

func testConfig() config.SFTPConfig {
	return config.SFTPConfig{
		Host:       "drop.bank.example",
		Port:       22,
		User:       "psb",
		Password:   "s3cret",
		Timeout:    5000,
		RemoteRoot: "/bob/transaction/response",
	}
}

func TestService_View_WithholdsPassword(t *testing.T) {
	svc := NewService(testConfig(), logger.NewNoOpLogger())

	view := svc.View()

	assert.Equal(t, "drop.bank.example", view.Host)
	assert.Equal(t, 22, view.Port)
	assert.Equal(t, "psb", view.User)
	assert.Equal(t, "/bob/transaction/response", view.RemoteRoot)
}

func TestService_ResolvePath(t *testing.T) {
	svc := NewService(testConfig(), logger.NewNoOpLogger())

	assert.Equal(t, "/bob/transaction/response", svc.resolvePath(""))
	assert.Equal(t, "/bob/limits", svc.resolvePath("/bob/limits"))
}

type fakeFileInfo struct {
	name  string
	size  int64
	dir   bool
	mtime time.Time
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return f.size }
func (f fakeFileInfo) Mode() os.FileMode  { return 0644 }
func (f fakeFileInfo) ModTime() time.Time { return f.mtime }
func (f fakeFileInfo) IsDir() bool        { return f.dir }
func (f fakeFileInfo) Sys() interface{}   { return nil }

func TestEntryFromInfo(t *testing.T) {
	mtime := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

	file := entryFromInfo(fakeFileInfo{name: "Response_FR-001.xml", size: 412, mtime: mtime})
	assert.Equal(t, "Response_FR-001.xml", file.Name)
	assert.Equal(t, "file", file.Kind)
	assert.Equal(t, int64(412), file.Size)
	assert.Equal(t, mtime, file.ModifiedAt)

	folder := entryFromInfo(fakeFileInfo{name: "limits", dir: true, mtime: mtime})
	assert.Equal(t, "folder", folder.Kind)
	assert.Zero(t, folder.Size)
}
