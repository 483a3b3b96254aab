package filetransfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"psb-dashboard/internal/common/config"
	"psb-dashboard/internal/common/logger"
	"psb-dashboard/internal/common/metrics"
	"psb-dashboard/internal/models"
)

var (
	ErrConnectionFailed = errors.New("SFTP_CONNECTION_FAILED")
	ErrListFailed       = errors.New("SFTP_LIST_FAILED")
	ErrUploadFailed     = errors.New("SFTP_UPLOAD_FAILED")
	ErrPathNotFound     = errors.New("SFTP_PATH_NOT_FOUND")
)

// Service moves generated response documents to the counterparty's file
// drop. Every operation opens its own connection and closes it on every
// exit path; nothing is held between calls.
type Service struct {
	config config.SFTPConfig
	logger logger.Logger
}

func NewService(cfg config.SFTPConfig, log logger.Logger) *Service {
	return &Service{
		config: cfg,
		logger: log,
	}
}

// ConfigView is the connection info exposed to callers. The password
// never leaves this package.
type ConfigView struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	User       string `json:"user"`
	RemoteRoot string `json:"remoteRoot"`
}

func (s *Service) View() ConfigView {
	return ConfigView{
		Host:       s.config.Host,
		Port:       s.config.Port,
		User:       s.config.User,
		RemoteRoot: s.config.RemoteRoot,
	}
}

func (s *Service) connect() (*ssh.Client, *sftp.Client, error) {
	sshConfig := &ssh.ClientConfig{
		User: s.config.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(s.config.Password),
		},
		// The drop host is an internal bank endpoint reached over a
		// private link; its host key is not pinned.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         time.Duration(s.config.Timeout) * time.Millisecond,
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	sshClient, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		metrics.SFTPTransfersTotal.WithLabelValues("connect", "error").Inc()
		return nil, nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		metrics.SFTPTransfersTotal.WithLabelValues("connect", "error").Inc()
		return nil, nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	return sshClient, sftpClient, nil
}

// List returns the entries under dir. An empty dir lists the configured
// remote root.
func (s *Service) List(ctx context.Context, dir string) ([]models.RemoteEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir = s.resolvePath(dir)

	sshClient, client, err := s.connect()
	if err != nil {
		return nil, err
	}
	defer sshClient.Close()
	defer client.Close()

	infos, err := client.ReadDir(dir)
	if err != nil {
		metrics.SFTPTransfersTotal.WithLabelValues("list", "error").Inc()
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, dir)
		}
		return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
	}

	entries := make([]models.RemoteEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, entryFromInfo(info))
	}

	metrics.SFTPTransfersTotal.WithLabelValues("list", "success").Inc()
	s.logger.Info("remote directory listed", map[string]interface{}{
		"dir":     dir,
		"entries": len(entries),
	})
	return entries, nil
}

// Upload writes content as filename under dir. The directory must
// already exist. The write is all-or-nothing: a partial file is removed
// before the error is returned.
func (s *Service) Upload(ctx context.Context, dir, filename string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if filename == "" {
		return fmt.Errorf("%w: empty filename", ErrUploadFailed)
	}
	dir = s.resolvePath(dir)

	sshClient, client, err := s.connect()
	if err != nil {
		return err
	}
	defer sshClient.Close()
	defer client.Close()

	info, err := client.Stat(dir)
	if err != nil || !info.IsDir() {
		metrics.SFTPTransfersTotal.WithLabelValues("upload", "error").Inc()
		return fmt.Errorf("%w: %s", ErrPathNotFound, dir)
	}

	remotePath := path.Join(dir, filename)
	file, err := client.Create(remotePath)
	if err != nil {
		metrics.SFTPTransfersTotal.WithLabelValues("upload", "error").Inc()
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	if _, err := file.Write(content); err != nil {
		file.Close()
		client.Remove(remotePath)
		metrics.SFTPTransfersTotal.WithLabelValues("upload", "error").Inc()
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := file.Close(); err != nil {
		client.Remove(remotePath)
		metrics.SFTPTransfersTotal.WithLabelValues("upload", "error").Inc()
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	metrics.SFTPTransfersTotal.WithLabelValues("upload", "success").Inc()
	s.logger.Info("document uploaded", map[string]interface{}{
		"remote_path": remotePath,
		"bytes":       len(content),
	})
	return nil
}

func (s *Service) resolvePath(dir string) string {
	if dir == "" {
		return s.config.RemoteRoot
	}
	return dir
}

func entryFromInfo(info os.FileInfo) models.RemoteEntry {
	kind := "file"
	if info.IsDir() {
		kind = "folder"
	}
	return models.RemoteEntry{
		Name:       info.Name(),
		Kind:       kind,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}
}
