// Package sftp provides an SFTP store for omnitable.
//
// Buckets are directories directly under Config.Root on the remote host,
// and keys are slash-separated paths inside a bucket.
//
// Basic usage with password authentication:
//
//	store, err := sftp.New(sftp.Config{
//	    Host:     "example.com",
//	    User:     "username",
//	    Password: "password",
//	    Root:     "/exports",
//	})
//
// With SSH key authentication and host key checking:
//
//	store, err := sftp.New(sftp.Config{
//	    Host:           "example.com",
//	    User:           "username",
//	    KeyFile:        "/path/to/id_ed25519",
//	    KnownHostsFile: "/home/me/.ssh/known_hosts",
//	})
package sftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/grokify/omnitable"
)

func init() {
	omnitable.Register("sftp", NewFromConfig)
}

// Store implements omnitable.Store for SFTP.
type Store struct {
	sshClient *ssh.Client
	client    *sftp.Client
	config    Config
	closed    bool
	mu        sync.RWMutex
}

// New connects to the server and returns a store.
func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	var authMethods []ssh.AuthMethod
	if cfg.Password != "" {
		authMethods = append(authMethods, ssh.Password(cfg.Password))
	}
	if cfg.KeyFile != "" {
		keyAuth, err := keyFileAuth(cfg.KeyFile, cfg.KeyPassphrase)
		if err != nil {
			return nil, fmt.Errorf("sftp: loading key file: %w", err)
		}
		authMethods = append(authMethods, keyAuth)
	}

	hostKeyCallback, err := hostKeyCallback(cfg.KnownHostsFile)
	if err != nil {
		return nil, err
	}

	sshConfig := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            authMethods,
		Timeout:         cfg.Timeout,
		HostKeyCallback: hostKeyCallback,
	}

	sshClient, err := ssh.Dial("tcp", cfg.Addr(), sshConfig)
	if err != nil {
		return nil, fmt.Errorf("sftp: SSH connection failed: %w", err)
	}

	client, err := sftp.NewClient(sshClient, clientOptions(cfg)...)
	if err != nil {
		if closeErr := sshClient.Close(); closeErr != nil {
			return nil, fmt.Errorf("sftp: SFTP session failed: %w (also failed to close SSH: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("sftp: SFTP session failed: %w", err)
	}

	s := newStore(client, cfg)
	s.sshClient = sshClient
	return s, nil
}

// NewWithClient creates a store around an existing SFTP client.
// Close closes the client.
func NewWithClient(client *sftp.Client, cfg Config) *Store {
	return newStore(client, cfg)
}

// NewFromConfig creates a new SFTP store from a config map.
// A "url" entry is parsed with ConfigFromURL and other entries are ignored.
// This is used by the omnitable registry.
func NewFromConfig(configMap map[string]string) (omnitable.Store, error) {
	if raw, ok := configMap["url"]; ok {
		cfg, err := ConfigFromURL(raw)
		if err != nil {
			return nil, err
		}
		return New(cfg)
	}
	return New(ConfigFromMap(configMap))
}

func newStore(client *sftp.Client, cfg Config) *Store {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	return &Store{
		client: client,
		config: cfg,
	}
}

func clientOptions(cfg Config) []sftp.ClientOption {
	opts := []sftp.ClientOption{sftp.UseConcurrentReads(true)}
	if cfg.Concurrency > 0 {
		opts = append(opts, sftp.MaxConcurrentRequestsPerFile(cfg.Concurrency))
	}
	return opts
}

// hostKeyCallback verifies against knownHostsFile when set.
func hostKeyCallback(knownHostsFile string) (ssh.HostKeyCallback, error) {
	if knownHostsFile == "" {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // G106: opt-in via KnownHostsFile
	}
	cb, err := knownhosts.New(knownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("sftp: loading known hosts: %w", err)
	}
	return cb, nil
}

// keyFileAuth creates an SSH auth method from a private key file.
func keyFileAuth(keyFile, passphrase string) (ssh.AuthMethod, error) {
	keyData, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	var signer ssh.Signer
	if passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(keyData, []byte(passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(keyData)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	return ssh.PublicKeys(signer), nil
}

// List lists files under prefix in bucket, recursing into subdirectories.
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]omnitable.ObjectInfo, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validateBucket(bucket); err != nil {
		return nil, err
	}
	if prefix != "" {
		if err := validateKey(prefix); err != nil {
			return nil, err
		}
	}

	// Walk only the deepest directory the prefix names
	dir := prefix
	if !strings.HasSuffix(dir, "/") {
		dir = path.Dir(dir)
	}
	if dir == "." {
		dir = ""
	}

	objects := []omnitable.ObjectInfo{}
	if err := s.walkDir(ctx, bucket, strings.TrimSuffix(dir, "/"), prefix, &objects); err != nil {
		return nil, err
	}
	return objects, nil
}

// walkDir appends every file below bucket/rel whose key starts with prefix.
func (s *Store) walkDir(ctx context.Context, bucket, rel, prefix string, objects *[]omnitable.ObjectInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := s.client.ReadDir(s.fullPath(bucket, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return s.translateError(err, bucket, rel)
	}

	for _, entry := range entries {
		key := entry.Name()
		if rel != "" {
			key = rel + "/" + key
		}

		if entry.IsDir() {
			// Skip subtrees that cannot contain a match
			if !strings.HasPrefix(key+"/", prefix) && !strings.HasPrefix(prefix, key+"/") {
				continue
			}
			if err := s.walkDir(ctx, bucket, key, prefix, objects); err != nil {
				return err
			}
			continue
		}

		if !entry.Mode().IsRegular() || !strings.HasPrefix(key, prefix) {
			continue
		}
		*objects = append(*objects, omnitable.ObjectInfo{
			Key:     key,
			Size:    entry.Size(),
			ModTime: entry.ModTime(),
		})
	}

	return nil
}

// Fetch reads the whole remote file at bucket/key.
func (s *Store) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validateBucket(bucket); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	f, err := s.client.Open(s.fullPath(bucket, key))
	if err != nil {
		return nil, s.translateError(err, bucket, key)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, s.translateError(err, bucket, key)
	}
	return data, nil
}

// Close closes the SFTP session and the SSH connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.sshClient != nil {
		if err := s.sshClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("sftp: close: %w", errors.Join(errs...))
	}
	return nil
}

func (s *Store) fullPath(bucket, key string) string {
	return path.Join(s.config.Root, bucket, key)
}

// validateBucket rejects empty names and names that leave Root.
func validateBucket(bucket string) error {
	if bucket == "" || bucket == "." || bucket == ".." || strings.Contains(bucket, "/") {
		return omnitable.ErrInvalidKey
	}
	return nil
}

// validateKey rejects empty keys and path traversal.
func validateKey(key string) error {
	if key == "" {
		return omnitable.ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.HasPrefix(cleaned, "/") {
		return omnitable.ErrInvalidKey
	}
	return nil
}

// checkClosed returns an error if the store is closed.
func (s *Store) checkClosed() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return omnitable.ErrStoreClosed
	}
	return nil
}

// translateError converts SFTP errors to omnitable errors.
func (s *Store) translateError(err error, bucket, key string) error {
	if err == nil {
		return nil
	}

	if os.IsNotExist(err) {
		return fmt.Errorf("%w: sftp %s/%s", omnitable.ErrNotFound, bucket, key)
	}
	if os.IsPermission(err) {
		return fmt.Errorf("%w: sftp %s/%s", omnitable.ErrPermissionDenied, bucket, key)
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		if os.IsNotExist(pathErr.Err) {
			return fmt.Errorf("%w: sftp %s/%s", omnitable.ErrNotFound, bucket, key)
		}
		if os.IsPermission(pathErr.Err) {
			return fmt.Errorf("%w: sftp %s/%s", omnitable.ErrPermissionDenied, bucket, key)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("sftp: network error for %s/%s: %w", bucket, key, err)
	}

	return fmt.Errorf("sftp: error for %s/%s: %w", bucket, key, err)
}

// Ensure Store implements omnitable.Store
var _ omnitable.Store = (*Store)(nil)
