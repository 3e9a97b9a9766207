package deployment

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"ezmode_site/internal/config"
	"ezmode_site/internal/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
)

// Target is a parsed deploy URL in format: user@host:path
type Target struct {
	User string
	Host string
	Path string
}

// ParseTarget parses a deploy URL in format: user@host:path
func ParseTarget(deployURL string) (Target, error) {
	if deployURL == "" {
		return Target{}, fmt.Errorf("deploy URL is empty")
	}

	user, hostPath, ok := strings.Cut(deployURL, "@")
	if !ok || user == "" {
		return Target{}, fmt.Errorf("invalid deploy URL format: expected user@host:path")
	}

	host, remotePath, ok := strings.Cut(hostPath, ":")
	if !ok || host == "" || remotePath == "" {
		return Target{}, fmt.Errorf("invalid deploy URL format: expected user@host:path")
	}

	return Target{User: user, Host: host, Path: remotePath}, nil
}

// SSHDeployer uploads the built site via SSH/SCP
type SSHDeployer struct {
	target  Target
	keyPath string
	retry   config.RetryConfig
	client  *ssh.Client
}

// NewSSHDeployer creates a new SSH deployer for the given user@host:path target
func NewSSHDeployer(deployURL, keyPath string, retry config.RetryConfig) (*SSHDeployer, error) {
	target, err := ParseTarget(deployURL)
	if err != nil {
		return nil, err
	}

	return &SSHDeployer{
		target:  target,
		keyPath: keyPath,
		retry:   retry,
	}, nil
}

func (d *SSHDeployer) Target() Target {
	return d.target
}

func (d *SSHDeployer) clientConfig() (*ssh.ClientConfig, error) {
	keyData, err := os.ReadFile(d.keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key file %s: %w", d.keyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SSH private key: %w", err)
	}

	return &ssh.ClientConfig{
		User: d.target.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: verify against a known_hosts file once the deploy host is pinned
		Timeout:         d.retry.Timeout,
	}, nil
}

// Connect establishes the SSH connection, retrying with backoff
func (d *SSHDeployer) Connect(ctx context.Context) error {
	if d.client != nil {
		return nil
	}

	cfg, err := d.clientConfig()
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(d.target.Host, "22")
	attempts := d.retry.Attempts()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := dial(ctx, addr, cfg)
		if err == nil {
			d.client = client
			log.Info().
				Str("host", d.target.Host).
				Str("user", d.target.User).
				Msg("Successfully connected to SSH server")
			return nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		log.Warn().
			Err(err).
			Str("host", d.target.Host).
			Int("attempt", attempt).
			Dur("backoff", d.retry.Backoff(attempt)).
			Msg("SSH connection failed, retrying")

		if err := d.retry.Wait(ctx, attempt); err != nil {
			return fmt.Errorf("SSH connection cancelled: %w", err)
		}
	}

	return fmt.Errorf("failed to connect to SSH server %s: %w", d.target.Host, lastErr)
}

func dial(ctx context.Context, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}

// Disconnect closes SSH connection
func (d *SSHDeployer) Disconnect() error {
	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}

// DeployFiles uploads files (paths relative to localDir) under the target path,
// creating remote directories first
func (d *SSHDeployer) DeployFiles(ctx context.Context, localDir string, files []string) error {
	if err := d.Connect(ctx); err != nil {
		return err
	}

	dirs := remoteDirs(d.target.Path, files)
	if len(dirs) > 0 {
		quoted := make([]string, len(dirs))
		for i, dir := range dirs {
			quoted[i] = shellQuote(dir)
		}
		if err := d.run("mkdir -p " + strings.Join(quoted, " ")); err != nil {
			return fmt.Errorf("failed to create remote directories: %w", err)
		}
	}

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		localPath := filepath.Join(localDir, filepath.FromSlash(rel))
		if err := d.DeployFile(localPath, rel); err != nil {
			return err
		}
	}

	log.Info().
		Str("host", d.target.Host).
		Str("remote_path", d.target.Path).
		Int("files", len(files)).
		Msg("Site deployed")

	return nil
}

func (d *SSHDeployer) run(cmd string) error {
	session, err := d.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session: %w", err)
	}
	defer session.Close()

	if out, err := session.CombinedOutput(cmd); err != nil {
		return fmt.Errorf("remote command failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// DeployFile uploads a file via SCP to rel under the target path
func (d *SSHDeployer) DeployFile(localPath, rel string) error {
	if d.client == nil {
		return fmt.Errorf("not connected")
	}

	localFile, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file %s: %w", localPath, err)
	}
	defer localFile.Close()

	fileInfo, err := localFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat local file: %w", err)
	}

	session, err := d.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session: %w", err)
	}
	defer session.Close()

	remoteFilePath := remotePath(d.target.Path, rel)

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	if err := session.Start("scp -t " + shellQuote(remoteFilePath)); err != nil {
		return fmt.Errorf("failed to start SCP session: %w", err)
	}

	header := fmt.Sprintf("C0644 %d %s\n", fileInfo.Size(), path.Base(remoteFilePath))
	if _, err := stdin.Write([]byte(header)); err != nil {
		return fmt.Errorf("failed to write SCP header: %w", err)
	}

	if _, err := io.Copy(stdin, localFile); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	if _, err := stdin.Write([]byte{0}); err != nil {
		return fmt.Errorf("failed to write SCP end marker: %w", err)
	}

	stdin.Close()
	if err := session.Wait(); err != nil {
		return fmt.Errorf("SCP session failed: %w", err)
	}

	metrics.FilesDeployed.Inc()
	log.Debug().
		Str("local_path", localPath).
		Str("remote_path", remoteFilePath).
		Int64("size", fileInfo.Size()).
		Msg("Successfully deployed file via SCP")

	return nil
}

// remotePath joins rel under base using forward slashes regardless of the local OS
func remotePath(base, rel string) string {
	return path.Join(base, filepath.ToSlash(rel))
}

// remoteDirs lists the distinct remote directories the files land in, sorted
func remoteDirs(base string, files []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, rel := range files {
		dir := path.Dir(remotePath(base, rel))
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)
	return dirs
}

// shellQuote single-quotes s for the remote POSIX shell
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
